package main

import (
	"net/http"
	"strconv"

	"library_rental/pkg/catalog"
	"library_rental/pkg/errs"
	"library_rental/pkg/models"

	"github.com/gin-gonic/gin"
)

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}

func idFrom(value, name string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Invalid("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func bookItem(b models.Book) gin.H {
	item := gin.H{
		"id":     b.ID,
		"name":   b.Title,
		"author": b.Author,
	}
	if b.Category.ID != 0 {
		item["category"] = b.Category.Name
	}
	if b.Series != nil {
		item["seria"] = b.Series.Name
	}
	if b.Publisher.ID != 0 {
		item["publisher"] = b.Publisher.Name
	}
	return item
}

func pageResponse(p catalog.Page[models.Book]) gin.H {
	items := make([]gin.H, len(p.Items))
	for i, b := range p.Items {
		items[i] = bookItem(b)
	}
	return gin.H{
		"page":          p.Page,
		"pageSize":      p.PageSize,
		"totalElements": p.TotalElements,
		"items":         items,
	}
}

func getCatalog(c *gin.Context) {
	p, err := books.ListBooks(c.Request.Context(), pageParam(c), cfg.CatalogPageSize, c.Query("book_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(p))
}

func getBook(c *gin.Context) {
	id, err := idFrom(c.Param("bookId"), "bookId")
	if err != nil {
		respondError(c, err)
		return
	}
	book, err := books.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookItem(*book))
}

func manageBooks(c *gin.Context) {
	p, err := books.ManageBooks(c.Request.Context(), pageParam(c), cfg.ManagePageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(p))
}

func newBook(c *gin.Context) {
	var in catalog.BookInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	book, err := books.AddBook(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookItem(*book))
}

func getEditBook(c *gin.Context) {
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
	c.JSON(http.StatusOK, bookItem(*book))
}

func editBook(c *gin.Context) {
	id, err := idFrom(c.Query("id_book"), "id_book")
	if err != nil {
		respondError(c, err)
		return
	}
	var in catalog.BookInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	book, err := books.EditBook(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookItem(*book))
}

func deleteBook(c *gin.Context) {
	id, err := idFrom(c.Param("bookId"), "bookId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := books.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
