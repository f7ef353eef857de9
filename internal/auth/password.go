// Package auth はパスワードハッシュ、トークン発行・検証、ログイン処理を提供する。
package auth

import "golang.org/x/crypto/bcrypt"

// Hasher はbcryptによるパスワードの一方向ハッシュ化と検証を提供する。
type Hasher struct {
	cost int
}

// NewHasher はHasherを生成する。
// costがbcryptの許容範囲外の場合はデフォルトコストを使用する。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードからソルト付きハッシュを生成する。
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify は平文パスワードとハッシュを照合する。
// 不一致または不正な形式のハッシュに対してはfalseを返し、panicしない。
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
