package handlers

import (
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"e24.in/crm/config"
)

var validate = validator.New()

// storeError logs the underlying persistence error and answers with a
// stable generic message. Internal detail is exposed only outside
// production.
func storeError(w http.ResponseWriter, publicMsg string, err error) {
	log.Printf("%s: %v", publicMsg, err)
	if !config.IsProduction() {
		http.Error(w, publicMsg+": "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, publicMsg, http.StatusInternalServerError)
}
