package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Trade Journal API
// @version         0.1.0
// @description     Trading journal backend: trades, accounts, emotions, and admin analytics.
// @host            localhost:8080
// @BasePath        /
// @schemes         http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
