package main

import (
	"net/http"

	"library_rental/pkg/stats"

	"github.com/gin-gonic/gin"
)

func rentStats(c *gin.Context) {
	counts, err := statistics.RentCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source": statistics.Source(),
		"items":  counts,
	})
}

func popularStats(c *gin.Context) {
	ranked, err := statistics.RankedPopularity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source": statistics.Source(),
		"items":  ranked,
	})
}

func exportRentStats(c *gin.Context) {
	data, err := statistics.ExportCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+stats.ExportFilename+`"`)
	c.Data(http.StatusOK, stats.ExportContentType, data)
}
