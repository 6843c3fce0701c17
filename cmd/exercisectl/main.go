package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	cl := &client{
		BaseURL:   envOr("EXERCISETRACKER_URL", "http://localhost:3000"),
		OutFormat: envOr("EXERCISETRACKER_OUT", "text"),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Out:       out,
	}

	root := &cobra.Command{
		Use:           "exercisectl",
		Short:         "CLI para la API de exercise tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&cl.BaseURL, "url", cl.BaseURL, "URL base de la API (env EXERCISETRACKER_URL)")
	root.PersistentFlags().StringVar(&cl.OutFormat, "out", cl.OutFormat, "Formato de salida: json|text")

	root.AddCommand(usersCmd(cl), exercisesCmd(cl), logsCmd(cl))
	return root
}

func usersCmd(cl *client) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Operaciones sobre usuarios"}

	createCmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Crear un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := cl.call(http.MethodPost, "/api/users", url.Values{"username": {args[0]}})
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				var u dto.UserResponse
				if err := json.Unmarshal(body, &u); err != nil {
					return err
				}
				fmt.Fprintf(cl.Out, "%s\t%s\n", u.ID, u.Username)
				return nil
			}
			cl.print(body)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar usuarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := cl.call(http.MethodGet, "/api/users", nil)
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				var list []dto.UserResponse
				if err := json.Unmarshal(body, &list); err != nil {
					return err
				}
				for _, u := range list {
					fmt.Fprintf(cl.Out, "%s\t%s\n", u.ID, u.Username)
				}
				return nil
			}
			cl.print(body)
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func exercisesCmd(cl *client) *cobra.Command {
	cmd := &cobra.Command{Use: "exercises", Short: "Operaciones sobre ejercicios"}

	var description, duration, date string
	addCmd := &cobra.Command{
		Use:   "add <user-id>",
		Short: "Registrar un ejercicio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if description == "" {
				return fmt.Errorf("--description es requerido")
			}
			form := url.Values{
				"description": {description},
				"duration":    {duration},
			}
			if date != "" {
				form.Set("date", date)
			}
			body, err := cl.call(http.MethodPost, "/api/users/"+url.PathEscape(args[0])+"/exercises", form)
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				var ex dto.ExerciseResponse
				if err := json.Unmarshal(body, &ex); err != nil {
					return err
				}
				fmt.Fprintf(cl.Out, "%s\t%s\t%g\t%s\n", ex.Username, ex.Date, ex.Duration, ex.Description)
				return nil
			}
			cl.print(body)
			return nil
		},
	}
	addCmd.Flags().StringVar(&description, "description", "", "Descripción del ejercicio")
	addCmd.Flags().StringVar(&duration, "duration", "", "Duración en minutos")
	addCmd.Flags().StringVar(&date, "date", "", "Fecha (ej. 2024-01-31); vacío = hoy")

	cmd.AddCommand(addCmd)
	return cmd
}

func logsCmd(cl *client) *cobra.Command {
	var from, to string
	var limit int
	cmd := &cobra.Command{
		Use:   "logs <user-id>",
		Short: "Consultar el log de ejercicios de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if from != "" {
				q.Set("from", from)
			}
			if to != "" {
				q.Set("to", to)
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}
			path := "/api/users/" + url.PathEscape(args[0]) + "/logs"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			body, err := cl.call(http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				var res dto.LogResponse
				if err := json.Unmarshal(body, &res); err != nil {
					return err
				}
				fmt.Fprintf(cl.Out, "%s (%s) count=%d\n", res.Username, res.ID, res.Count)
				for _, e := range res.Log {
					fmt.Fprintf(cl.Out, "  %s\t%g\t%s\n", e.Date, e.Duration, e.Description)
				}
				return nil
			}
			cl.print(body)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Fecha desde (inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "Fecha hasta (inclusive)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Máximo de entradas")
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
