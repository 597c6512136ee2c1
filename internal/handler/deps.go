package handler

import (
	"minichat/internal/app/chat"
	"minichat/internal/app/store"
	"minichat/internal/configs"
)

// AppDeps bundles the collaborators handlers need.
type AppDeps struct {
	Hub    *chat.Hub
	Store  *store.Store
	Config *configs.AppConfig
}
