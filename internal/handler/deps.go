package handler

import (
	"crewchat/internal/app/chat"
	"crewchat/internal/configs"
)

// AppDeps bundles what the HTTP handlers need.
type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
}
