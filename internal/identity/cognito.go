package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// cognitoAPI is the subset of the Cognito client the provider calls.
type cognitoAPI interface {
	InitiateAuth(ctx context.Context, in *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, in *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	GetUser(ctx context.Context, in *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
	GlobalSignOut(ctx context.Context, in *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
}

// Cognito is a Provider backed by an AWS Cognito user pool app client.
type Cognito struct {
	client   cognitoAPI
	clientID string
}

// NewCognito creates a provider with the default AWS config chain
// (environment, ~/.aws/config, instance role).
func NewCognito(ctx context.Context, region, clientID string) (*Cognito, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Cognito{
		client:   cognitoidentityprovider.NewFromConfig(cfg),
		clientID: clientID,
	}, nil
}

// SignIn runs the USER_PASSWORD_AUTH flow and resolves the account behind the token.
func (c *Cognito) SignIn(ctx context.Context, email, password string) (*Account, error) {
	out, err := c.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, providerError(err)
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.AccessToken == nil {
		return nil, errors.New("identity provider returned no session")
	}

	token := aws.ToString(out.AuthenticationResult.AccessToken)
	user, err := c.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{AccessToken: aws.String(token)})
	if err != nil {
		return nil, providerError(err)
	}

	acct := &Account{Email: email, AccessToken: token}
	for _, attr := range user.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			acct.UID = aws.ToString(attr.Value)
		case "name", "preferred_username":
			if acct.DisplayName == "" {
				acct.DisplayName = aws.ToString(attr.Value)
			}
		}
	}
	if acct.UID == "" {
		acct.UID = aws.ToString(user.Username)
	}
	return acct, nil
}

// SignUp registers a new credential. The account is not signed in.
func (c *Cognito) SignUp(ctx context.Context, email, password string) (*Account, error) {
	out, err := c.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return nil, providerError(err)
	}
	return &Account{UID: aws.ToString(out.UserSub), Email: email}, nil
}

// SignOut invalidates every token issued for the access token's user.
func (c *Cognito) SignOut(ctx context.Context, accessToken string) error {
	if _, err := c.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	}); err != nil {
		return providerError(err)
	}
	return nil
}

// providerError keeps the provider's own message, which is shown to users.
func providerError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe := &Error{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
		if pe.Code == "NotAuthorizedException" || pe.Code == "UserNotFoundException" {
			pe.Err = ErrInvalidCredentials
		}
		return pe
	}
	return err
}
