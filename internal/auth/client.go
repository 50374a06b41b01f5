package auth

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/rs/zerolog/log"
)

// cognitoAPI defines the part of the Cognito identity provider API the client relies on
type cognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

// Client exchanges user credentials for an identity token using the Cognito password grant
type Client struct {
	api          cognitoAPI
	clientID     string
	clientSecret string
}

// NewClient creates a new identity client on top of a Cognito identity provider API
func NewClient(api cognitoAPI, clientID, clientSecret string) *Client {
	return &Client{
		api:          api,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Authenticate performs a USER_PASSWORD_AUTH flow for the given credentials.
// It returns the issued identity token and 'true' on success.
// Every failure, no matter if the credentials were rejected or the provider was
// unreachable, collapses to ("", false); the cause is only logged.
func (client *Client) Authenticate(ctx context.Context, username, password string) (string, bool) {
	response, err := client.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(client.clientID),
		AuthParameters: map[string]string{
			"USERNAME":    username,
			"PASSWORD":    password,
			"SECRET_HASH": SecretHash(username, client.clientID, client.clientSecret),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("authentication failed")
		return "", false
	}
	if response.AuthenticationResult == nil || response.AuthenticationResult.IdToken == nil {
		log.Error().Str("username", username).Msg("authentication response contains no identity token")
		return "", false
	}

	log.Info().Str("username", username).Msg("authentication succeeded")
	return *response.AuthenticationResult.IdToken, true
}
