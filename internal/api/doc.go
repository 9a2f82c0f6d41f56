// Package api translates HTTP requests into service calls. It owns request
// DTOs and their validation, the error-to-status mapping, and the route table
// mounted under /api/v1. Every resource route except registration and login
// sits behind the bearer-token middleware.
package api
