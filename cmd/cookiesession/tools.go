package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cookiesession/pkg/cookie"
	"github.com/dmitrymomot/cookiesession/pkg/envelope"
	"github.com/dmitrymomot/cookiesession/pkg/keyring"
	"github.com/dmitrymomot/cookiesession/pkg/session"
)

type resolverFlags struct {
	keys []string
}

func (f *resolverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.keys, "key", "k", nil, "signing key, newest first (overrides SESSION_KEYS)")
}

func (f *resolverFlags) resolver(cfg session.Config) (*keyring.Resolver, error) {
	keys := cfg.Keys
	if len(f.keys) > 0 {
		keys = f.keys
	}
	ks, err := keyring.NewKeySet(keys...)
	if err != nil {
		return nil, err
	}
	provider, err := session.ProviderFor(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return keyring.NewResolver(ks,
		keyring.WithProvider(provider),
		keyring.WithTimeout(cfg.Timeout),
	), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func sealCmd(flags *globalFlags) *cobra.Command {
	var (
		rf     resolverFlags
		maxAge int
	)

	cmd := &cobra.Command{
		Use:   "seal <json-object>",
		Short: "Encrypt session data into a cookie value",
		Example: `  cookiesession seal -k k1 '{"role":"admin"}'
  cookiesession seal --max-age 3600 '{"user":"u1"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			r, err := rf.resolver(cfg.Session)
			if err != nil {
				return err
			}

			var data map[string]any
			if err := json.Unmarshal([]byte(args[0]), &data); err != nil || data == nil {
				return fmt.Errorf("data must be a JSON object: %w", errors.Join(envelope.ErrMalformed, err))
			}
			if !cmd.Flags().Changed("max-age") {
				maxAge = cfg.Session.Cookie.MaxAge
			}

			expireAt := r.Now().Add(time.Duration(maxAge) * time.Second)
			token, err := r.Seal(commandContext(cmd), envelope.New(data, expireAt))
			if err != nil {
				return err
			}
			encoded := cookie.Encode(token)
			if err := keyring.CheckSize(encoded, cfg.Session.MaxCookieSize); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&maxAge, "max-age", 0, "lifetime in seconds (default: SESSION_COOKIE_MAX_AGE)")
	return cmd
}

type openResult struct {
	KeyIndex int            `json:"keyIndex"`
	ExpireAt time.Time      `json:"expireAt"`
	Data     map[string]any `json:"data"`
}

func openCmd(flags *globalFlags) *cobra.Command {
	var rf resolverFlags

	cmd := &cobra.Command{
		Use:   "open <cookie-value>",
		Short: "Decrypt a cookie value and print its envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			r, err := rf.resolver(cfg.Session)
			if err != nil {
				return err
			}

			token, err := cookie.Decode(args[0])
			if err != nil {
				return err
			}
			env, idx, err := r.Open(commandContext(cmd), token)
			if err != nil {
				var exhausted *keyring.ExhaustedError
				if errors.As(err, &exhausted) {
					for _, a := range exhausted.Attempts {
						fmt.Fprintf(cmd.ErrOrStderr(), "key %d: %v\n", a.KeyIndex, a.Err)
					}
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(openResult{KeyIndex: idx, ExpireAt: env.Expiry().UTC(), Data: env.Data})
		},
	}

	rf.register(cmd)
	return cmd
}

func keygenCmd() *cobra.Command {
	var size, count int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate random signing keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < 16 {
				return fmt.Errorf("key size must be at least 16 bytes, got %d", size)
			}
			for range count {
				b := make([]byte, size)
				if _, err := rand.Read(b); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), base64.RawURLEncoding.EncodeToString(b))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "bytes", 32, "random bytes per key")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of keys")
	return cmd
}
