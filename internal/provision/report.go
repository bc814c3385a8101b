package provision

// State is the branch a name took.
type State string

const (
	// StateExisting means the private key was already on disk.
	StateExisting State = "existing"
	// StateGenerated means a new key pair was written.
	StateGenerated State = "generated"
	// StateInconsistent means only the public key was on disk.
	StateInconsistent State = "inconsistent"
	// StateGenerateFailed means the generator returned an error.
	StateGenerateFailed State = "generate-failed"
)

// Outcome records what happened to one name.
type Outcome struct {
	Name       string
	PrivateKey string
	State      State
	Err        error // set for StateInconsistent and StateGenerateFailed

	RegisterAttempted bool
	Registered        bool
	RegisterErr       error

	ConfigAttempted bool
	ConfigAdded     bool // false with a nil ConfigErr means already present
	ConfigErr       error
}

// Succeeded reports whether a usable private key is on disk for the name.
func (o Outcome) Succeeded() bool {
	return o.State == StateExisting || o.State == StateGenerated
}

// Report is the result of a Run.
type Report struct {
	// Requested is the number of names given, duplicates included. It is
	// what the closing summary line reports.
	Requested int
	Outcomes  []Outcome
}

// Succeeded counts outcomes with a usable key.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Warnings counts outcomes with any failure, including best-effort steps.
func (r Report) Warnings() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil || o.RegisterErr != nil || o.ConfigErr != nil {
			n++
		}
	}
	return n
}
