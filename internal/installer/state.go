package installer

// State is a step of the install pipeline.
type State int

const (
	StateResolvingFormula State = iota
	StateSelectingVersion
	StatePreparingDirectories
	StateDownloading
	StateVerifyingChecksum
	StateExtracting
	StateExposing
	StateWritingManifest
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateResolvingFormula:     "resolving formula",
	StateSelectingVersion:     "selecting version",
	StatePreparingDirectories: "preparing directories",
	StateDownloading:          "downloading",
	StateVerifyingChecksum:    "verifying checksum",
	StateExtracting:           "extracting",
	StateExposing:             "exposing",
	StateWritingManifest:      "writing manifest",
	StateDone:                 "done",
	StateFailed:               "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
