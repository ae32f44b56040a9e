// Package recording defines the shared mutable recording object that the
// reconciliation components operate on: the ordered channel layout, the
// time-stamped event list, an optional ICA decomposition, and an optional
// mark set. One ingest call owns a Recording exclusively; nothing here
// is safe for concurrent mutation.
package recording

// Channel types used in the primary and non-data buckets.
const (
	TypeEEG      = "EEG" // data channel carrying recorded signal
	TypeFiducial = "FID" // position-only reference point
)

// Position is a 3D electrode coordinate in the recording's native space.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Channel is one sensor's metadata: its label, optional spatial position,
// and whether it carries recorded signal.
type Channel struct {
	Label    string
	Position *Position
	Type     string
}

// IsData reports whether the channel carries recorded signal.
func (c Channel) IsData() bool {
	return c.Type != TypeFiducial
}

// Event is one time-stamped occurrence in the recording. Latency is in
// samples; events are kept ordered by latency.
type Event struct {
	Latency float64
	Type    string
}

// Matrix is a dense row-major numeric matrix.
type Matrix [][]float64

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, zero for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// MinDim returns the smaller of the two dimensions. For an ICA weights
// matrix this is the component count regardless of orientation.
func (m Matrix) MinDim() int {
	r, c := m.Rows(), m.Cols()
	if r < c {
		return r
	}
	return c
}

// Square reports whether the matrix is square and non-empty.
func (m Matrix) Square() bool {
	return m.Rows() > 0 && m.Rows() == m.Cols()
}

// Decomposition is an ICA unmixing attached to a recording. It is present
// only when both constituent matrices were supplied; a recording never
// carries a partial decomposition.
type Decomposition struct {
	Weights        Matrix // components x channels-used
	Sphere         Matrix // channels-used x channels-used
	ChannelIndices []int  // 0-based indices into the primary channel list
}

// Components returns the component count of the decomposition.
func (d *Decomposition) Components() int {
	return d.Weights.MinDim()
}

// Recording is the shared mutable target of one ingest call.
type Recording struct {
	// Channels is the ordered primary channel list; every entry is a
	// data channel.
	Channels []Channel

	// Fiducials holds non-data channels: electrode rows that never
	// matched a primary channel, and primary labels demoted during
	// reconciliation. They keep label and position but are excluded
	// from computations over data channels.
	Fiducials []Channel

	// Events is ordered by latency.
	Events []Event

	// ICA is nil unless a complete decomposition was merged.
	ICA *Decomposition

	// Marks is nil until annotation ingest runs.
	Marks *MarkSet

	// SampleRate in Hz.
	SampleRate float64

	// Samples is the per-channel sample count.
	Samples int
}

// ChannelLabels returns the primary channel labels in order.
func (r *Recording) ChannelLabels() []string {
	labels := make([]string, len(r.Channels))
	for i, ch := range r.Channels {
		labels[i] = ch.Label
	}
	return labels
}

// MarkWidth returns the flag width annotation ingest must allocate:
// the component count when an ICA decomposition is attached, otherwise
// the recording's sample count.
func (r *Recording) MarkWidth() int {
	if r.ICA != nil {
		return r.ICA.Components()
	}
	return r.Samples
}
