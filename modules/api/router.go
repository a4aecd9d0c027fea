package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount under /api.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Register     Mountable
	PublicConfig Mountable
}

// Router creates the API router.
//
// Example:
//
//	regSvc, _ := registration.NewFromConfig(regCfg, limiter)
//	cfgSvc := publicconfig.New(pubCfg, log)
//
//	r := chi.NewRouter()
//	r.Mount("/api", api.Router(api.RouterOptions{
//	    Register:     regSvc,
//	    PublicConfig: cfgSvc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Register != nil {
		r.Mount("/register", opts.Register.Handle())
	}
	if opts.PublicConfig != nil {
		r.Mount("/public-config", opts.PublicConfig.Handle())
	}

	return r
}
