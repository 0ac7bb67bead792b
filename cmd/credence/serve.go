package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/credence/internal/adapters/http"
	"github.com/aretw0/credence/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/credence/pkg/adapters/redis"
	"github.com/aretw0/credence/pkg/ports"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP inference server",
	Long:  `Starts the engine in server mode, exposing solves and stepped sessions over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")

		net, err := loadNetwork(cmd)
		if err != nil {
			fmt.Printf("Error loading network: %v\n", err)
			os.Exit(1)
		}

		var store ports.StateStore
		opts := []httpAdapter.Option{httpAdapter.WithLogger(newLogger(cmd))}
		if redisAddr != "" {
			redisStore := redisAdapter.New(redisAddr, "", 0)
			defer redisStore.Close()
			store = redisStore
		} else {
			store = memory.NewStore()
		}

		server := httpAdapter.NewServer(net, store, opts...)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Credence Server on %s\n", srv.Addr)
			fmt.Printf("Serving network: %s\n", net.Name())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Credence Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for session storage (in-memory when empty)")
}
