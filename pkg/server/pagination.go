package server

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.openly.dev/pointy"
)

// Page is the listing envelope: absolute count plus next/previous page
// links.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

type pageParams struct {
	number int
	size   int
}

func getPageParams(c *gin.Context, defaultSize int) pageParams {
	params := pageParams{number: 1, size: defaultSize}

	if number, err := strconv.Atoi(c.Query("page")); err == nil && number > 0 {
		params.number = number
	}

	if size, err := strconv.Atoi(c.Query("limit")); err == nil && size > 0 {
		params.size = size
	}

	return params
}

func (p pageParams) offset() int {
	return (p.number - 1) * p.size
}

func newPage(c *gin.Context, params pageParams, count int64, results interface{}) Page {
	page := Page{Count: count, Results: results}

	if int64(params.offset()+params.size) < count {
		page.Next = pointy.String(pageURL(c, params.number+1, params.size))
	}

	if params.number > 1 {
		page.Previous = pointy.String(pageURL(c, params.number-1, params.size))
	}

	return page
}

func pageURL(c *gin.Context, number int, size int) string {
	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(number))
	query.Set("limit", strconv.Itoa(size))

	return fmt.Sprintf("%s?%s", c.Request.URL.Path, query.Encode())
}
