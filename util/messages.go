package util

const (
	INTERNAL_SERVER_ERROR       = "internal server error"
	INCOMPLETE_CONTENT          = "incomplete content"
	INVALID_CREDENTIALS         = "invalid credentials"
	MISSING_TOKEN               = "missing or invalid token"
	INVALID_DATE                = "invalid date, expected YYYY-MM-DD or RFC3339"
	INVALID_REQUEST_BODY        = "invalid request body"
	EMAIL_ALREADY_REGISTERED    = "email already registered"
	USERNAME_ALREADY_REGISTERED = "username already registered"
	NOTHING_TO_UPDATE           = "no updatable fields provided"
	INVALID_PAYMENT_METHOD      = "paymentMethod must be one of cash, card, upi, other"
	INVALID_PAYMENT_STATUS      = "payment must be paid or unpaid"
	INVALID_PAYMENT_AMOUNT      = "paymentAmount must not be negative"
	MISALIGNED_PRESCRIPTION     = "dosage, duration and instructions must match medicine in length"
	NOT_APPOINTMENT_DOCTOR      = "appointment belongs to another doctor"
	NOT_APPOINTMENT_PATIENT     = "appointment belongs to another patient"
	ILLEGAL_TRANSITION          = "appointment cannot move from %s to %s"
	CONCURRENT_MODIFICATION     = "appointment was modified concurrently, reload and retry"
	TOO_MANY_REQUESTS           = "too many requests"
)

const (
	DoctorKey          = "DOCTOR:"
	FinancialReportKey = "REPORT:FINANCIAL"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"
