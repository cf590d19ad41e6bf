package response

import (
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CreateEntryResponse struct {
	domain.Entry
	Confirmation formrender.Confirmation `json:"confirmation"`
}
