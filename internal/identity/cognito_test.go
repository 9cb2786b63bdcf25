package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	authIn    *cognitoidentityprovider.InitiateAuthInput
	signUpIn  *cognitoidentityprovider.SignUpInput
	signedOut string
	authErr   error
	attrs     []types.AttributeType
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cognitoidentityprovider.InitiateAuthInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	f.authIn = in
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("access-1")},
	}, nil
}

func (f *fakeCognito) SignUp(_ context.Context, in *cognitoidentityprovider.SignUpInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	f.signUpIn = in
	return &cognitoidentityprovider.SignUpOutput{UserSub: aws.String("sub-new")}, nil
}

func (f *fakeCognito) GetUser(_ context.Context, in *cognitoidentityprovider.GetUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error) {
	return &cognitoidentityprovider.GetUserOutput{Username: aws.String("fallback"), UserAttributes: f.attrs}, nil
}

func (f *fakeCognito) GlobalSignOut(_ context.Context, in *cognitoidentityprovider.GlobalSignOutInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error) {
	f.signedOut = aws.ToString(in.AccessToken)
	return &cognitoidentityprovider.GlobalSignOutOutput{}, nil
}

func TestCognitoSignIn(t *testing.T) {
	fake := &fakeCognito{attrs: []types.AttributeType{
		{Name: aws.String("sub"), Value: aws.String("sub-1")},
		{Name: aws.String("name"), Value: aws.String("Ana")},
	}}
	c := &Cognito{client: fake, clientID: "app-client"}

	acct, err := c.SignIn(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "sub-1", acct.UID)
	assert.Equal(t, "Ana", acct.DisplayName)
	assert.Equal(t, "access-1", acct.AccessToken)
	assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, fake.authIn.AuthFlow)
	assert.Equal(t, "ana@example.com", fake.authIn.AuthParameters["USERNAME"])
	assert.Equal(t, "app-client", aws.ToString(fake.authIn.ClientId))
}

func TestCognitoSignInFallsBackToUsername(t *testing.T) {
	c := &Cognito{client: &fakeCognito{}, clientID: "app-client"}

	acct, err := c.SignIn(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "fallback", acct.UID)
}

func TestCognitoSignInKeepsProviderMessage(t *testing.T) {
	fake := &fakeCognito{authErr: &smithy.GenericAPIError{
		Code:    "NotAuthorizedException",
		Message: "Incorrect username or password.",
	}}
	c := &Cognito{client: fake, clientID: "app-client"}

	_, err := c.SignIn(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Incorrect username or password.")
}

func TestCognitoProviderErrorPassesThroughOthers(t *testing.T) {
	err := providerError(&smithy.GenericAPIError{Code: "UsernameExistsException", Message: "An account with the given email already exists."})
	assert.EqualError(t, err, "An account with the given email already exists.")

	plain := errors.New("dial tcp: timeout")
	assert.Equal(t, plain, providerError(plain))
}

func TestCognitoSignUpAndSignOut(t *testing.T) {
	fake := &fakeCognito{}
	c := &Cognito{client: fake, clientID: "app-client"}

	acct, err := c.SignUp(context.Background(), "bea@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "sub-new", acct.UID)
	assert.Equal(t, "bea@example.com", aws.ToString(fake.signUpIn.Username))

	require.NoError(t, c.SignOut(context.Background(), "access-9"))
	assert.Equal(t, "access-9", fake.signedOut)
}
