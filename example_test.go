package extman_test

import (
	"context"
	"fmt"

	extman "github.com/kalebbroo/extman"
	"github.com/kalebbroo/extman/pkg/extension"
)

type storage struct{}

func (*storage) Manifest() extension.Manifest {
	return extension.Manifest{ID: "storage", Version: "1.0.0"}
}

func (*storage) RegisterServices(services *extension.ServiceCollection) error {
	services.Register("storage.path", "/var/lib/app")
	return nil
}

func (*storage) Initialize(ctx context.Context, services *extension.ServiceCollection) error {
	fmt.Println("storage up")
	return nil
}

func (*storage) Shutdown(ctx context.Context) error {
	fmt.Println("storage down")
	return nil
}

type api struct{}

func (*api) Manifest() extension.Manifest {
	return extension.Manifest{ID: "api", Version: "1.0.0", Dependencies: []string{"storage"}}
}

func (*api) Initialize(ctx context.Context, services *extension.ServiceCollection) error {
	path, _ := services.Resolve("storage.path")
	fmt.Println("api up, storage at", path)
	return nil
}

func (*api) Shutdown(ctx context.Context) error {
	fmt.Println("api down")
	return nil
}

func ExampleNew() {
	ctx := context.Background()
	h, err := extman.New()
	if err != nil {
		panic(err)
	}

	// Input order does not matter; dependencies decide the load order.
	loaded, err := h.LoadAll(ctx, []extman.Extension{&api{}, &storage{}})
	if err != nil {
		panic(err)
	}
	fmt.Println("loaded:", loaded)

	h.UnloadAll(ctx)
	// Output:
	// storage up
	// api up, storage at /var/lib/app
	// loaded: 2
	// api down
	// storage down
}
