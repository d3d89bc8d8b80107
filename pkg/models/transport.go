package models

// BatchRequest asks for several kernels in one call
type BatchRequest struct {
	Requests []KernelRequest `json:"requests" binding:"required,min=1,dive"`
}

// BatchResponse returns kernels in request order
type BatchResponse struct {
	Kernels []KernelResponse `json:"kernels"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
