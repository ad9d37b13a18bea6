package config

import (
	"fmt"
	"time"

	"github.com/rpupo63/photo-portfolio/errs"
)

// Settings is built once at startup and handed to every component that needs it.
type Settings struct {
	Server    ServerSettings
	Database  DatabaseSettings
	Auth      AuthSettings
	ImageHost ImageHostSettings
	Geocoder  GeocoderSettings
	Upload    UploadSettings
}

type ServerSettings struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string
}

type DatabaseSettings struct {
	DSN         string
	ReplicaDSNs []string
	MaxOpenConn int
	MaxIdleConn int
}

type AuthSettings struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

type ImageHostSettings struct {
	Provider string // cloudinary, cloudflare or s3

	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryBaseURL      string

	CloudflareAccountID string
	CloudflareAPIToken  string

	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
	AWSRegion       string
}

type GeocoderSettings struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type UploadSettings struct {
	MaxUploadBytes int64
}

// Load builds Settings from an env map produced by New (optionally overlaid with SSM parameters).
func Load(c map[string]string) (Settings, error) {
	s := Settings{
		Server: ServerSettings{
			Port:            GetString(c, "PORT", "8080"),
			ReadTimeout:     time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
			WriteTimeout:    time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
			IdleTimeout:     time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
			AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		},
		Database: LoadDatabase(c),
		Auth: AuthSettings{
			JWTSecret: GetString(c, "JWT_SECRET", ""),
			TokenTTL:  time.Duration(GetInt(c, "JWT_TTL_MINUTES", 60*12)) * time.Minute,
			Issuer:    GetString(c, "JWT_ISSUER", "photo-portfolio"),
		},
		ImageHost: ImageHostSettings{
			Provider:               GetString(c, "IMAGE_HOST", "cloudinary"),
			CloudinaryCloudName:    GetString(c, "CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryUploadPreset: GetString(c, "CLOUDINARY_UPLOAD_PRESET", ""),
			CloudinaryAPIKey:       GetString(c, "CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret:    GetString(c, "CLOUDINARY_API_SECRET", ""),
			CloudinaryBaseURL:      GetString(c, "CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
			CloudflareAccountID:    GetString(c, "CLOUDFLARE_ACCOUNT_ID", ""),
			CloudflareAPIToken:     GetString(c, "CLOUDFLARE_API_TOKEN", ""),
			S3Bucket:               GetString(c, "S3_BUCKET", ""),
			S3Prefix:               GetString(c, "S3_PREFIX", "photos/"),
			S3PublicBaseURL:        GetString(c, "S3_PUBLIC_BASE_URL", ""),
			AWSRegion:              GetString(c, "AWS_REGION", "us-east-1"),
		},
		Geocoder: GeocoderSettings{
			BaseURL:   GetString(c, "GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: GetString(c, "GEOCODER_USER_AGENT", "PhotoPortfolio/1.0"),
			Timeout:   time.Duration(GetInt(c, "GEOCODER_TIMEOUT_SECONDS", 10)) * time.Second,
			CacheTTL:  time.Duration(GetInt(c, "GEOCODER_CACHE_HOURS", 24)) * time.Hour,
		},
		Upload: UploadSettings{
			MaxUploadBytes: int64(GetInt(c, "MAX_UPLOAD_MB", 64)) << 20,
		},
	}

	return s, s.validate()
}

func (s Settings) validate() error {
	if s.Auth.JWTSecret == "" {
		return errs.NewEnvironmentVariableError("JWT_SECRET")
	}

	switch s.ImageHost.Provider {
	case "cloudinary":
		if s.ImageHost.CloudinaryCloudName == "" {
			return errs.NewEnvironmentVariableError("CLOUDINARY_CLOUD_NAME")
		}
		if s.ImageHost.CloudinaryUploadPreset == "" {
			return errs.NewEnvironmentVariableError("CLOUDINARY_UPLOAD_PRESET")
		}
		if s.ImageHost.CloudinaryAPIKey == "" || s.ImageHost.CloudinaryAPISecret == "" {
			return errs.NewEnvironmentVariableError("CLOUDINARY_API_KEY/CLOUDINARY_API_SECRET")
		}
	case "cloudflare":
		if s.ImageHost.CloudflareAccountID == "" || s.ImageHost.CloudflareAPIToken == "" {
			return errs.NewEnvironmentVariableError("CLOUDFLARE_ACCOUNT_ID/CLOUDFLARE_API_TOKEN")
		}
	case "s3":
		if s.ImageHost.S3Bucket == "" {
			return errs.NewEnvironmentVariableError("S3_BUCKET")
		}
	default:
		return errs.NewConfigError("IMAGE_HOST", fmt.Errorf("unknown provider %q", s.ImageHost.Provider))
	}

	return nil
}

// LoadDatabase reads only the database settings. Maintenance commands use it
// so they run without the server's secrets.
func LoadDatabase(c map[string]string) DatabaseSettings {
	return DatabaseSettings{
		DSN:         databaseDSN(c),
		ReplicaDSNs: GetList(c, "DATABASE_REPLICA_URLS"),
		MaxOpenConn: GetInt(c, "DATABASE_MAX_OPEN_CONNS", 25),
		MaxIdleConn: GetInt(c, "DATABASE_MAX_IDLE_CONNS", 5),
	}
}

// databaseDSN prefers DATABASE_URL and falls back to the discrete SUPABASE_DB_* variables.
func databaseDSN(c map[string]string) string {
	if dsn := GetString(c, "DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	if GetString(c, "SUPABASE_DB_HOST", "") == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetString(c, "SUPABASE_DB_HOST", ""),
		GetString(c, "SUPABASE_DB_USER", ""),
		GetString(c, "SUPABASE_DB_PASSWORD", ""),
		GetString(c, "SUPABASE_DB_NAME", "postgres"),
		GetString(c, "SUPABASE_DB_PORT", "5432"),
		GetString(c, "SUPABASE_DB_SSLMODE", "require"),
	)
}
