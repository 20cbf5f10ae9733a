package pkg

import "errors"

var (
	// Card errors 💾
	ErrCardInvalid        = errors.New("❌ invalid card root")
	ErrVerificationFailed = errors.New("❌ card verification failed")
)
