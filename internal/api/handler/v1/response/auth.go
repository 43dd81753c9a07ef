package response

import "github.com/mecalink/admin-gateway/internal/domain"

type LoginResponse struct {
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
	Landing string      `json:"landing"`
}

type ProfileResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}
