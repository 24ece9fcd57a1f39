package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"account-service/internal/app"
	"account-service/internal/config"
)

var (
	initOnce   sync.Once
	apiRuntime *app.Runtime
	initErr    error
)

func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		cfg, err := config.Load(nil)
		if err != nil {
			initErr = err
			return
		}
		apiRuntime, initErr = app.Build(context.Background(), app.Options{Config: cfg})
	})

	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "application bootstrap failed"})
		return
	}

	apiRuntime.Handler.ServeHTTP(w, r)
}
