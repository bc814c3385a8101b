// Package keygen creates SSH key pairs on disk.
//
// Two generators are available. SSHKeygen shells out to ssh-keygen, the
// same tool a user would run by hand. Native generates Ed25519 keys
// in-process with golang.org/x/crypto/ssh and is used when ssh-keygen is not
// installed. Both write the private key to Options.Path with mode 0600 and
// the public key to Options.Path + ".pub" with mode 0644, and both refuse to
// overwrite an existing private key.
//
//	gen, err := keygen.New(keygen.KindAuto, logger.Default())
//	err = gen.Generate(keygen.Options{Path: "deploy", Comment: keygen.DefaultComment})
//
// An empty passphrase produces an unencrypted key.
package keygen
