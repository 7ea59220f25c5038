package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Config Lens API
// @version 0.1
// @description Interactive documentation for the config-lens comparison API.
// @contact.name Config Lens Maintainers
// @contact.url https://github.com/raysh454/configlens
// @BasePath /
