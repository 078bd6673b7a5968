package main

import (
	"errors"
	"log"
	"net/http"

	"library_rental/pkg/errs"

	"github.com/gin-gonic/gin"
)

// respondError writes the status and body for a service error. Rental
// errors that send the reader back to the catalog carry a redirect hint.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNoActiveRentals), errors.Is(err, errs.ErrRentalExpired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "/"})
	case errors.Is(err, errs.ErrDuplicateRental), errors.Is(err, errs.ErrLoginTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("[%s] %s %s: %v", c.GetString(requestIDHeader), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
