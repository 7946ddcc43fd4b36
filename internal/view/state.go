package view

// Phase is the lifecycle position of a View.
type Phase int

const (
	// PhaseIdle means no container is loaded and nothing is shown.
	PhaseIdle Phase = iota
	// PhaseLoading means a fetch is in flight.
	PhaseLoading
	// PhaseBlank means a container is loaded but no texture is shown,
	// because decoding failed or the selected format is unsupported.
	PhaseBlank
	// PhaseDecoded means a texture for the selected format is shown.
	PhaseDecoded
	// PhaseDisposed is terminal.
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseBlank:
		return "blank"
	case PhaseDecoded:
		return "decoded"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// State is a snapshot of what the view displays.
type State struct {
	Phase  Phase
	Source string
	// Width and Height are the viewport size, taken from image 0 level 0.
	Width  int
	Height int
	// CompressedSize is the container size in bytes.
	CompressedSize int
	// DecodedSize is the transcoded size of the selected format in bytes.
	DecodedSize int
	// Format is the selected format name.
	Format string
	// Formats lists the selectable format names in priority order.
	Formats []string
}
