package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// CodeはHTTPステータスへのマッピングに使用し、Messageはそのまま
// レスポンスの error フィールドとしてクライアントに返す。
type APIError struct {
	Code    string // エラーコード
	Message string // クライアント向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodePokemonNotFound    = "POKEMON_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeAlreadyAssigned    = "ALREADY_ASSIGNED"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "Unauthorized",
	}
}

// NewSelfDeleteError は自分自身の削除を試みた場合のエラーを生成する。
func NewSelfDeleteError() *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: "You cannot delete yourself",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
	}
}

// NewPokemonNotFoundError はポケモンが見つからない場合のエラーを生成する。
func NewPokemonNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodePokemonNotFound,
		Message: "Pokemon not found",
	}
}

// NewInvalidCredentialsError はパスワード不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid credentials",
	}
}

// NewEmailTakenError はメールアドレスの一意制約違反エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailTaken,
		Message: "Email is already registered",
	}
}

// NewAlreadyAssignedError は二重割り当てエラーを生成する。
func NewAlreadyAssignedError() *APIError {
	return &APIError{
		Code:    ErrCodeAlreadyAssigned,
		Message: "Pokemon is already assigned to you",
	}
}
