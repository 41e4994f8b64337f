/* cmd/demo/main.go */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/loomctr/loomctr/ctr"
)

type greetInput struct {
	Name string `json:"name"`
}

type greetOutput struct {
	Message string `json:"message"`
}

func greetProcedure() ctr.ProcedureDef {
	return ctr.ProcedureDef{
		Name: "greet",
		Handler: func(ctx context.Context, input json.RawMessage) (any, error) {
			var in greetInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, ctr.ValidationError("invalid input")
			}
			if in.Name == "" {
				return nil, ctr.ValidationError("name is required")
			}
			locale := ctr.FromContext(ctx).Locale
			if locale == "ja" {
				return greetOutput{Message: fmt.Sprintf("こんにちは、%sさん", in.Name)}, nil
			}
			return greetOutput{Message: fmt.Sprintf("Hello, %s", in.Name)}, nil
		},
	}
}

// main wires a router against a build output directory produced by the
// extraction pipeline (route-manifest.json, rpc-hash-map.json, template
// and i18n files) and serves it. The directory defaults to ./dist, the
// conventional build output location.
func main() {
	dir := os.Getenv("LOOMCTR_BUILD_DIR")
	if dir == "" {
		dir = "dist"
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	r := ctr.NewRouter().WithLogger(logger)
	r.Procedure(greetProcedure())

	pages, err := ctr.LoadBuildOutput(dir)
	if err != nil {
		logger.Warn("no build output found, serving procedures only", zap.Error(err))
	}
	for _, p := range pages {
		r.Page(p)
	}

	if hashMap := ctr.LoadRpcHashMap(dir); hashMap != nil {
		r.RpcHashMap(hashMap)
	}

	if store, cfg, err := ctr.LoadI18n(dir); err == nil && store != nil {
		r.I18n(store, cfg)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	if err := ctr.ListenAndServe("0.0.0.0:"+port, r.Handler()); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
