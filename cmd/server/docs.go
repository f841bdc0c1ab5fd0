// Package main CarZone Server API
//
//	@title						CarZone Server API
//	@version					1.0
//	@description				Storefront backend for auto parts: catalog, cart, orders, payments and reviews.
//
//	@contact.name				CarZone Support
//	@contact.email				support@carzone.example
//
//	@host						localhost:8080
//	@BasePath					/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Auth
//	@tag.description			Sign-up, sign-in and tokens
//
//	@tag.name					Catalog
//	@tag.description			Products and categories
//
//	@tag.name					Cart
//
//	@tag.name					Orders
//	@tag.description			Checkout and order history
//
//	@tag.name					Payments
//
//	@tag.name					Webhooks
//	@tag.description			Payment provider callbacks
//
//	@tag.name					Reviews
//
//	@tag.name					Seller
//	@tag.description			Product management for sellers and admins
//
//	@tag.name					Admin
//	@tag.description			Store administration
package main
