// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはログイン検証専用であり、JSONには一切出力しない。
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	NewsletterOptIn bool       `json:"newsletter_opt_in"`
	AccountCreated  time.Time  `json:"account_created"`
	LastLogin       *time.Time `json:"last_login"`
}
