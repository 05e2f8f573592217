package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	InvalidInput   failure.ErrorCode = "InvalidInput"   // EI profiles of different length
	InvalidCatalog failure.ErrorCode = "InvalidCatalog" // catalog source returned unusable data
	InvalidTier    failure.ErrorCode = "InvalidTier"
	ShaftNotFound  failure.ErrorCode = "ShaftNotFound"
)
