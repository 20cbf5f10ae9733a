package bus

// Recorder is an in-memory transport. It keeps every completed frame and
// enforces frame discipline.
type Recorder struct {
	frames [][]byte
	cur    []byte
	open   bool
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// BeginFrame implements Transport
func (r *Recorder) BeginFrame() error {
	if r.open {
		return ErrFrameOpen
	}
	r.open = true
	r.cur = make([]byte, 0, 8)
	return nil
}

// WriteByte implements Transport
func (r *Recorder) WriteByte(c byte) error {
	if !r.open {
		return ErrNoFrame
	}
	r.cur = append(r.cur, c)
	return nil
}

// EndFrame implements Transport
func (r *Recorder) EndFrame() error {
	if !r.open {
		return ErrNoFrame
	}
	r.frames = append(r.frames, r.cur)
	r.cur = nil
	r.open = false
	return nil
}

// Open reports whether a frame is currently open
func (r *Recorder) Open() bool {
	return r.open
}

// Frames returns the raw completed frames
func (r *Recorder) Frames() [][]byte {
	return r.frames
}

// Commands decodes all completed frames
func (r *Recorder) Commands() ([]Command, error) {
	cmds := make([]Command, 0, len(r.frames))
	for _, f := range r.frames {
		c, err := DecodeFrame(f)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// Reset drops everything recorded so far
func (r *Recorder) Reset() {
	r.frames = nil
	r.cur = nil
	r.open = false
}
