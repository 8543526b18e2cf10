package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/pkg/utils"
	"github.com/zalando/go-keyring"
)

const credentialNamespacePrefix = "socialpilot_"

var ErrUnknownCredentialKey = errors.New("unknown credential key")

// CredentialService is the source of per-platform secrets. Missing values are
// not errors; they leave the platform without a client.
type CredentialService interface {
	Load(ctx context.Context) map[models.Platform]models.Credentials
	Save(ctx context.Context, platform models.Platform, values map[string]string) error
}

// CredentialNamespace is the keyring service name holding a platform's secrets.
func CredentialNamespace(platform models.Platform) string {
	return credentialNamespacePrefix + platform.Key()
}

// CredentialEnvVar is the environment variable holding one secret, e.g. TWITTER_ACCESS_TOKEN.
func CredentialEnvVar(platform models.Platform, key string) string {
	return strings.ToUpper(platform.Key()) + "_" + key
}

func validateCredentialKeys(platform models.Platform, values map[string]string) error {
	allowed := models.CredentialKeys[platform]
	for key := range values {
		found := false
		for _, k := range allowed {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s for %s", ErrUnknownCredentialKey, key, platform)
		}
	}
	return nil
}

type envCredentialService struct{}

// NewEnvCredentialService reads secrets from the process environment. Saved
// values live in the environment for the lifetime of the process.
func NewEnvCredentialService() CredentialService {
	return &envCredentialService{}
}

func (s *envCredentialService) Load(ctx context.Context) map[models.Platform]models.Credentials {
	all := make(map[models.Platform]models.Credentials, len(models.CredentialKeys))
	for platform, keys := range models.CredentialKeys {
		creds := models.Credentials{}
		for _, key := range keys {
			if v := os.Getenv(CredentialEnvVar(platform, key)); v != "" {
				creds[key] = v
			}
		}
		all[platform] = creds
	}
	return all
}

func (s *envCredentialService) Save(ctx context.Context, platform models.Platform, values map[string]string) error {
	if err := validateCredentialKeys(platform, values); err != nil {
		return err
	}
	for key, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if err := os.Setenv(CredentialEnvVar(platform, key), value); err != nil {
			return err
		}
	}
	return nil
}

type keyringCredentialService struct {
	secretKey string
}

// NewKeyringCredentialService stores secrets in the OS keyring under
// socialpilot_<platform>. With a secretKey, values are AES-GCM sealed first.
func NewKeyringCredentialService(secretKey string) CredentialService {
	return &keyringCredentialService{secretKey: secretKey}
}

func (s *keyringCredentialService) Load(ctx context.Context) map[models.Platform]models.Credentials {
	all := make(map[models.Platform]models.Credentials, len(models.CredentialKeys))
	for platform, keys := range models.CredentialKeys {
		creds := models.Credentials{}
		for _, key := range keys {
			value, err := keyring.Get(CredentialNamespace(platform), key)
			if err != nil {
				if !errors.Is(err, keyring.ErrNotFound) {
					slog.Error("keyring lookup failed", "platform", platform, "key", key, "error", err.Error())
				}
				continue
			}
			if s.secretKey != "" {
				value, err = utils.Decrypt(value, s.secretKey)
				if err != nil {
					slog.Error("unable to decrypt credential", "platform", platform, "key", key)
					continue
				}
			}
			if value != "" {
				creds[key] = value
			}
		}
		all[platform] = creds
	}
	return all
}

func (s *keyringCredentialService) Save(ctx context.Context, platform models.Platform, values map[string]string) error {
	if err := validateCredentialKeys(platform, values); err != nil {
		return err
	}
	for key, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if s.secretKey != "" {
			sealed, err := utils.Encrypt([]byte(value), s.secretKey)
			if err != nil {
				return err
			}
			value = sealed
		}
		if err := keyring.Set(CredentialNamespace(platform), key, value); err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("error saving %s credential %s: %w", platform, key, err)
		}
	}
	return nil
}
