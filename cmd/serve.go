package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/salehq/activityboard/internal/server"
	"github.com/salehq/activityboard/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the embedded publish endpoint",
	Long: `Serves GET /api/data (the published snapshot, or JSON null before the
first publish) and POST /api/data (bearer-token authenticated replace).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = viper.GetString("server.listen")
		}
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = viper.GetString("server.token")
		}
		if token == "" {
			fmt.Println("Warning: no server.token configured, POST /api/data is disabled")
		}

		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		srv := server.New(server.Config{
			Store: store,
			Token: token,
			Log:   utils.Log,
		})
		return srv.ListenAndServe(listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from config, :8090)")
	serveCmd.Flags().String("token", "", "Bearer token required for POST (default from config)")
}
