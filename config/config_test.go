package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/photo-portfolio/errs"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":               "secret",
		"CLOUDINARY_CLOUD_NAME":    "demo",
		"CLOUDINARY_UPLOAD_PRESET": "portfolio_preset",
		"CLOUDINARY_API_KEY":       "key",
		"CLOUDINARY_API_SECRET":    "secret",
	}
}

func TestGetHelpers(t *testing.T) {
	c := map[string]string{"A": "12", "B": "nope", "C": "true", "D": " x, ,y ", "E": ""}

	assert.Equal(t, 12, GetInt(c, "A", 1))
	assert.Equal(t, 1, GetInt(c, "B", 1))
	assert.True(t, GetBool(c, "C", false))
	assert.False(t, GetBool(c, "B", false))
	assert.Equal(t, []string{"x", "y"}, GetList(c, "D"))
	assert.Nil(t, GetList(c, "missing"))
	assert.Equal(t, "fallback", GetString(c, "E", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "A", "fallback"))
}

func TestSplit(t *testing.T) {
	key, value := split("KEY=a=b")
	assert.Equal(t, "KEY", key)
	assert.Equal(t, "a=b", value)

	key, value = split("EMPTY")
	assert.Equal(t, "EMPTY", key)
	assert.Equal(t, "", value)
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Server.Port)
	assert.Equal(t, 180*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, "cloudinary", s.ImageHost.Provider)
	assert.Equal(t, 12*time.Hour, s.Auth.TokenTTL)
	assert.Equal(t, int64(64<<20), s.Upload.MaxUploadBytes)
	assert.Equal(t, "https://nominatim.openstreetmap.org", s.Geocoder.BaseURL)
}

func TestLoad_SupabaseDSN(t *testing.T) {
	env := baseEnv()
	env["SUPABASE_DB_HOST"] = "db.example.co"
	env["SUPABASE_DB_USER"] = "postgres"
	env["SUPABASE_DB_PASSWORD"] = "pw"

	s, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "host=db.example.co user=postgres password=pw dbname=postgres port=5432 sslmode=require", s.Database.DSN)

	env["DATABASE_URL"] = "postgres://local/db"
	s, err = Load(env)
	require.NoError(t, err)
	assert.Equal(t, "postgres://local/db", s.Database.DSN)
}

func TestLoad_MissingSecret(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")

	_, err := Load(env)
	assert.True(t, errs.IsEnvironmentVariableError(err))
}

func TestLoad_CloudinaryRequiresCredentials(t *testing.T) {
	env := baseEnv()
	delete(env, "CLOUDINARY_API_SECRET")

	_, err := Load(env)
	assert.True(t, errs.IsEnvironmentVariableError(err))
}

func TestLoad_UnknownProvider(t *testing.T) {
	env := baseEnv()
	env["IMAGE_HOST"] = "ftp"

	_, err := Load(env)
	assert.ErrorIs(t, err, errs.ErrConfigInvalid)
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	env := baseEnv()
	env["IMAGE_HOST"] = "s3"

	_, err := Load(env)
	require.Error(t, err)

	env["S3_BUCKET"] = "photos"
	_, err = Load(env)
	assert.NoError(t, err)
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestOverlayFromClient(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/JWT_SECRET"), Value: aws.String("from-ssm")}},
		{{Name: aws.String("/portfolio/prod/CLOUDINARY_API_SECRET"), Value: aws.String("cloud-secret")}},
	}}
	env := map[string]string{"JWT_SECRET": "from-env"}

	err := overlayFromClient(context.Background(), client, "/portfolio/prod", env)
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "from-env", env["JWT_SECRET"])
	assert.Equal(t, "cloud-secret", env["CLOUDINARY_API_SECRET"])
}

func TestLoadDatabase_NoSecretsNeeded(t *testing.T) {
	d := LoadDatabase(map[string]string{"DATABASE_URL": "postgres://local/db", "DATABASE_REPLICA_URLS": "postgres://r1/db"})

	assert.Equal(t, "postgres://local/db", d.DSN)
	assert.Equal(t, []string{"postgres://r1/db"}, d.ReplicaDSNs)
	assert.Equal(t, 25, d.MaxOpenConn)
}
