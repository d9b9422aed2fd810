package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestGraphEndpoint_ServesDotText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Mock endpoint serving a prebuilt description
	const dotText = "digraph G {\n}\n"
	router.GET("/graph.dot", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(dotText))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/graph.dot", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, dotText, w.Body.String())
}

func TestEdgesEndpoint_Shape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/api/edges", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"main_user": "m@x.com",
			"edges": []gin.H{
				{"source": "p@x.com", "target": "a@x.com", "category": "all_present"},
			},
		})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/edges", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "m@x.com", response["main_user"])
	assert.Len(t, response["edges"], 1)
}
