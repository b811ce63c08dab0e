package models

type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// ErrorResponseWithDetails carries raw upstream error text alongside the message.
func ErrorResponseWithDetails(err, details string) Response {
	return Response{
		Success: false,
		Error:   err,
		Details: details,
	}
}
