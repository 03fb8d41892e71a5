package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type lookupResponse struct {
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
	Publishers  []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func main() {
	port := ":8082"
	http.HandleFunc("/isbn/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		isbn := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/isbn/"), ".json")

		// Simulate slight processing delay
		time.Sleep(1 * time.Millisecond)

		resp := lookupResponse{
			Title:       "Mock Book " + isbn,
			PublishDate: "2019",
		}
		resp.Authors = append(resp.Authors, struct {
			Name string `json:"name"`
		}{Name: "Mock Author"})
		resp.Publishers = append(resp.Publishers, struct {
			Name string `json:"name"`
		}{Name: "Mock Publisher"})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)

		log.Printf("Processed mock ISBN lookup: %s", isbn)
	})

	log.Printf("Mock ISBN server starting on %s...", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatal(err)
	}
}
