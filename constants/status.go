package constants

// ParseStatus is the canonical parsing outcome stored on prescription and
// medical report rows.
type ParseStatus string

// Stable values (store these exact strings in DB).
const (
	ParseStatusSuccess ParseStatus = "success" // structured data recovered and mapped
	ParseStatusPartial ParseStatus = "partial" // mapped but clinically sparse
	ParseStatusFailed  ParseStatus = "failed"  // nothing usable recovered
)
