// searchindex-mock is a local stand-in for the remote search index: it
// accepts one JSON document per POST and prints what it receives.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"strings"
)

func main() {
	var (
		port    = flag.String("port", "9200", "port to listen on")
		verbose = flag.Bool("verbose", true, "print received documents")
	)
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/_doc") {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var doc map[string]any
		if err := json.Unmarshal(payload, &doc); err != nil {
			http.Error(w, "document must be a JSON object", http.StatusBadRequest)
			return
		}

		if *verbose {
			log.Printf("%s: %s", r.URL.Path, payload)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	addr := ":" + *port
	log.Printf("mock search index listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
