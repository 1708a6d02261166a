package payment

// Result is the envelope every reconciliation operation returns. Operations
// always answer HTTP 200; success and failure are carried in the envelope so
// upstream payment gateways get a uniform shape to parse.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Detail  string      `json:"detail"`
	Data    interface{} `json:"data"`
}

func resultOK(data interface{}) Result {
	return Result{Success: true, Message: "Ok", Detail: "", Data: data}
}

func resultErr(op string, err error) Result {
	return Result{
		Success: false,
		Message: "Failed to " + op + " Payment",
		Detail:  err.Error(),
		Data:    map[string]interface{}{},
	}
}

func authRequired() Result {
	return Result{
		Success: false,
		Message: "Authentication required",
		Detail:  "PermissionDenied",
		Data:    map[string]interface{}{},
	}
}
