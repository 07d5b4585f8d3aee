package config

import "github.com/spf13/viper"

// Auth auth config struct
type Auth struct {
	JWT *JWT
	// IDSecret obfuscates user IDs exposed to clients. 16, 24, or 32 bytes.
	IDSecret string
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT:      getJWT(v),
		IDSecret: v.GetString("auth.id_secret"),
	}
}

// JWT jwt config struct
type JWT struct {
	Secret string
	// Expire is the token TTL in minutes.
	Expire int
	// Revocation selects the revocation store: "memory" (default) or "redis".
	Revocation string
	RedisAddr  string
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	jwt := &JWT{
		Secret:     v.GetString("auth.jwt.secret"),
		Expire:     v.GetInt("auth.jwt.expire"),
		Revocation: v.GetString("auth.jwt.revocation"),
		RedisAddr:  v.GetString("auth.jwt.redis_addr"),
	}
	if jwt.Expire <= 0 {
		jwt.Expire = 60
	}
	return jwt
}
