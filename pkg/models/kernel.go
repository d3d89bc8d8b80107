package models

import "time"

// KernelRequest describes a kernel to generate.
// Omitted size, mode and std select the generator defaults.
type KernelRequest struct {
	Kind      string   `json:"kind" binding:"required"`
	Size      *int     `json:"size,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Mu        float64  `json:"mu,omitempty"`
	Std       *float64 `json:"std,omitempty"`
	Normalize string   `json:"normalize,omitempty"`
}

// KernelSummary holds diagnostic statistics about a kernel's coefficients
type KernelSummary struct {
	Sum           float64 `json:"sum"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	Variance      float64 `json:"variance"`
	Symmetric     bool    `json:"symmetric"`
	Antisymmetric bool    `json:"antisymmetric"`
	Normalized    bool    `json:"normalized"`
	Separable     bool    `json:"separable"`
}

// KernelResponse is the result of a generation request
type KernelResponse struct {
	Kind         string      `json:"kind"`
	Size         int         `json:"size,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	Mu           float64     `json:"mu,omitempty"`
	Std          float64     `json:"std,omitempty"`
	Normalize    string      `json:"normalize"`
	Rows         int         `json:"rows"`
	Cols         int         `json:"cols"`
	Coefficients [][]float64 `json:"coefficients"`
	Text         string      `json:"text"`

	Summary KernelSummary `json:"summary"`

	Timestamp        time.Time `json:"timestamp"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
}

// PresetInfo describes a named preset
type PresetInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Request     KernelRequest `json:"request"`
}

// PublishResponse reports where a generated kernel document was stored
type PublishResponse struct {
	Key    string          `json:"key"`
	Kernel *KernelResponse `json:"kernel"`
}
