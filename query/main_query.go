package main

import "github.com/CPU-commits/CareerNest/query/server"

// @title          CareerNest API
// @version        1.0
// @description    Listings, search and accounts API of CareerNest
// @termsOfService http://swagger.io/terms/

// @contact.name  API Support
// @contact.url   http://www.swagger.io/support
// @contact.email support@swagger.io

// @tag.name        listings
// @tag.description Jobs, internships, scholarships and the rest of the content kinds

// @host     localhost:8080
// @BasePath /api

// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       Authorization
// @description                BearerJWTToken in Authorization Header

// @accept  json
// @produce json
// @product application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @product application/pdf

// @schemes http https
func main() {
	server.Init()
}
