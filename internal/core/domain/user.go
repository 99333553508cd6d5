package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrPhoneAlreadyBound = errors.New("phone number already bound to another user")
var ErrPhoneNotVerified = errors.New("phone number not verified")
var ErrWeChatExchange = errors.New("wechat code exchange failed")
var ErrSmsDelivery = errors.New("sms delivery failed")

// User models an account bound to a WeChat identity. A row is created on
// first login with only WxOpenID set; Mob is filled in by SMS verification
// and the remaining profile fields by registration completion.
type User struct {
	ID           int64     `json:"id"`
	WxOpenID     string    `json:"wxOpenId"`
	Mob          string    `json:"mob,omitempty"`
	Name         string    `json:"name,omitempty"`
	IDCardNumber string    `json:"idCardNumber,omitempty"`
	Birthday     string    `json:"birthday,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PhoneVerified reports whether the user has passed SMS verification.
func (u *User) PhoneVerified() bool {
	return u.Mob != ""
}

// SmsChallenge is the ephemeral record written when a verification code is
// sent. At most one live challenge exists per user; a new send overwrites
// the previous one. The code itself is stored only as a bcrypt hash.
type SmsChallenge struct {
	Mob       string    `json:"mob"`
	CodeHash  string    `json:"codeHash"`
	CreatedAt time.Time `json:"createdAt"`
}
