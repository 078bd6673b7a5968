package main

import (
	"net/http"

	"library_rental/pkg/rental"

	"github.com/gin-gonic/gin"
)

type rentRequest struct {
	BookID uint   `json:"id_book" form:"id_book"`
	Term   string `json:"rent_term" form:"rent_term"`
}

func getRentForm(c *gin.Context) {
	id, err := idFrom(c.Query("id_book"), "id_book")
	if err != nil {
		respondError(c, err)
		return
	}
	book, err := books.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"book":  bookItem(*book),
		"terms": rental.Terms(),
	})
}

func createRent(c *gin.Context) {
	user, _ := currentIdentity(c)

	var req rentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.BookID == 0 {
		if id, err := idFrom(c.Query("id_book"), "id_book"); err == nil {
			req.BookID = id
		}
	}
	if req.BookID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_book is required"})
		return
	}
	term, err := rental.ParseTerm(req.Term)
	if err != nil {
		respondError(c, err)
		return
	}

	rent, err := rentals.CreateRental(c.Request.Context(), user.UserID, req.BookID, term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"rentId":    rent.ID,
		"bookId":    rent.BookID,
		"startDate": rent.StartDate.Format("2006-01-02"),
		"endDate":   rent.EndDate.Format("2006-01-02"),
	})
}

func readBook(c *gin.Context) {
	user, _ := currentIdentity(c)

	var requested *uint
	if raw := c.Query("id_book"); raw != "" {
		id, err := idFrom(raw, "id_book")
		if err != nil {
			respondError(c, err)
			return
		}
		requested = &id
	}

	book, err := rentals.ReadBook(c.Request.Context(), user.UserID, requested)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     book.ID,
		"name":   book.Title,
		"author": book.Author,
	})
}

func personalAccount(c *gin.Context) {
	id, _ := currentIdentity(c)

	user, err := users.Get(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	rented, err := rentals.Rentals(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, len(rented))
	for i, r := range rented {
		items[i] = gin.H{
			"id_book":    r.BookID,
			"book_name":  r.Title,
			"author":     r.Author,
			"start_date": r.StartDate.Format("2006-01-02"),
			"end_date":   r.EndDate.Format("2006-01-02"),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"login":      user.Login,
		"name":       user.FirstName(),
		"lastName":   user.LastName(),
		"middleName": user.MiddleName(),
		"role":       id.Role.String(),
		"rentals":    items,
	})
}

func returnBook(c *gin.Context) {
	user, _ := currentIdentity(c)

	bookID, err := idFrom(c.Param("bookId"), "bookId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := rentals.DeleteRental(c.Request.Context(), user.UserID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
