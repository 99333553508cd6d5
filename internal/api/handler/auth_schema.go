package handler

import "github.com/civicstats/identity-api/internal/core/domain"

// --- Request types ---

type loginRequest struct {
	RedirectURI string `query:"redirect_uri" validate:"required"`
}

type getTokenRequest struct {
	Code string `query:"code" validate:"required"`
}

type sendSmsCodeRequest struct {
	Mob string `json:"mob" validate:"required,cnmobile"`
}

type verifySmsCodeRequest struct {
	Mob     string `json:"mob"     validate:"required,cnmobile"`
	SmsCode string `json:"smsCode" validate:"required,len=6,numeric"`
}

type registerRequest struct {
	Mob          string `json:"mob"          validate:"required,cnmobile"`
	Name         string `json:"name"         validate:"required"`
	IDCardNumber string `json:"idCardNumber" validate:"required"`
	Birthday     string `json:"birthday"     validate:"required"`
}

// --- Response types ---

type tokenResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type sendSmsCodeResponse struct {
	IsSuccess     bool `json:"isSuccess"`
	ExpireSeconds int  `json:"expireSeconds"`
}

type verifySmsCodeResponse struct {
	IsSuccess bool `json:"isSuccess"`
}

type registerResponse struct {
	IsSuccess bool         `json:"isSuccess"`
	User      *domain.User `json:"user"`
}
