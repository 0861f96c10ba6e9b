package handler

import (
	"roomtoken/internal/app/scope"
	"roomtoken/internal/app/token"
	"roomtoken/internal/configs"
)

// TokenIssuer issues signed room tokens. *token.Issuer implements it.
type TokenIssuer interface {
	Issue(room string) (*token.Issued, error)
	AppID() string
	SchemaVersion() scope.Version
}

type AppDeps struct {
	Issuer TokenIssuer
	Config *configs.AppConfig
}
