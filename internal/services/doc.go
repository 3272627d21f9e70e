// Package services defines the error taxonomy shared by the external
// service clients and the components that call them.
package services
