package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
)

// cognitoAPI is the subset of the Cognito user pool API used here.
type cognitoAPI interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GetUser(ctx context.Context, in *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	RevokeToken(ctx context.Context, in *cip.RevokeTokenInput, optFns ...func(*cip.Options)) (*cip.RevokeTokenOutput, error)
}

// CognitoConfig configures the Cognito user pool app client.
type CognitoConfig struct {
	Region          string
	ClientID        string
	ClientSecret    string
	AccessKeyID     string
	SecretAccessKey string
}

// CognitoProvider implements Provider against an AWS Cognito user pool.
type CognitoProvider struct {
	api          cognitoAPI
	clientID     string
	clientSecret string
	now          func() time.Time
}

// NewCognitoProvider loads AWS configuration and returns a provider.
// Static credentials are used when given; otherwise the default chain applies.
// The public user pool operations used here do not need AWS credentials.
func NewCognitoProvider(ctx context.Context, cfg CognitoConfig) (*CognitoProvider, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newCognitoProvider(cip.NewFromConfig(awsCfg), cfg.ClientID, cfg.ClientSecret), nil
}

func newCognitoProvider(api cognitoAPI, clientID, clientSecret string) *CognitoProvider {
	return &CognitoProvider{
		api:          api,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// secretHash computes the SECRET_HASH required when the app client has a secret.
func (p *CognitoProvider) secretHash(username string) *string {
	if p.clientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(username + p.clientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// SignUp registers a user with name and email attributes.
// PRE: in.Email and in.Password are non-empty
// POST: user exists unconfirmed; a confirmation code was sent
func (p *CognitoProvider) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	out, err := p.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:   aws.String(p.clientID),
		Username:   aws.String(in.Email),
		Password:   aws.String(in.Password),
		SecretHash: p.secretHash(in.Email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(in.Email)},
			{Name: aws.String("name"), Value: aws.String(in.Name)},
		},
	})
	if err != nil {
		return SignUpResult{}, mapCognitoError(err)
	}
	res := SignUpResult{UserID: aws.ToString(out.UserSub), NeedsConfirm: true}
	if out.CodeDeliveryDetails != nil {
		res.CodeDeliveryHint = aws.ToString(out.CodeDeliveryDetails.Destination)
	}
	return res, nil
}

// ConfirmSignUp confirms a registration with the emailed code.
func (p *CognitoProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := p.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		SecretHash:       p.secretHash(email),
	})
	return mapCognitoError(err)
}

// SignIn authenticates with USER_PASSWORD_AUTH. A live ActiveAccessToken means
// a user is already signed in on this session and yields ErrAlreadySignedIn.
// PRE: in.Email and in.Password are non-empty
// POST: returns tokens whose ExpiresAt is taken from the access token's exp claim
func (p *CognitoProvider) SignIn(ctx context.Context, in SignInInput) (Tokens, error) {
	if in.ActiveAccessToken != "" {
		if _, err := p.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(in.ActiveAccessToken)}); err == nil {
			return Tokens{}, ErrAlreadySignedIn
		}
	}

	params := map[string]string{
		"USERNAME": in.Email,
		"PASSWORD": in.Password,
	}
	if hash := p.secretHash(in.Email); hash != nil {
		params["SECRET_HASH"] = *hash
	}
	out, err := p.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(p.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return Tokens{}, mapCognitoError(err)
	}
	if out.AuthenticationResult == nil {
		slog.Info("auth_event", "event", "sign_in_challenge", "email", in.Email, "challenge", string(out.ChallengeName))
		return Tokens{}, ErrChallengeRequired
	}

	tokens := Tokens{
		AccessToken:  aws.ToString(out.AuthenticationResult.AccessToken),
		IDToken:      aws.ToString(out.AuthenticationResult.IdToken),
		RefreshToken: aws.ToString(out.AuthenticationResult.RefreshToken),
	}
	tokens.ExpiresAt = tokenExpiry(tokens.AccessToken, p.now().Add(time.Hour))
	return tokens, nil
}

// SignOut revokes refreshToken and the access tokens issued with it. Other
// browsers of the same user keep their own tokens. An already invalid token is
// not an error.
func (p *CognitoProvider) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	in := &cip.RevokeTokenInput{
		ClientId: aws.String(p.clientID),
		Token:    aws.String(refreshToken),
	}
	if p.clientSecret != "" {
		in.ClientSecret = aws.String(p.clientSecret)
	}
	_, err := p.api.RevokeToken(ctx, in)
	if err := mapCognitoError(err); err != nil && !errors.Is(err, ErrInvalidCredentials) {
		return err
	}
	return nil
}

// CurrentUserAttributes returns the attributes of the user owning accessToken.
// Any failure means there is no usable signed-in user.
func (p *CognitoProvider) CurrentUserAttributes(ctx context.Context, accessToken string) (Attributes, error) {
	if accessToken == "" {
		return Attributes{}, ErrNotAuthenticated
	}
	out, err := p.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		return Attributes{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	attrs := Attributes{Username: aws.ToString(out.Username), Extra: make(map[string]string)}
	for _, a := range out.UserAttributes {
		name, value := aws.ToString(a.Name), aws.ToString(a.Value)
		switch name {
		case "email":
			attrs.Email = value
		case "name":
			attrs.Name = value
		default:
			attrs.Extra[name] = value
		}
	}
	if attrs.Email == "" {
		attrs.Email = attrs.Username
	}
	return attrs, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the token
// came straight from Cognito over TLS and is only used to bound the session.
func tokenExpiry(token string, fallback time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	return exp.Time
}

func mapCognitoError(err error) error {
	if err == nil {
		return nil
	}
	var (
		notAuthorized *types.NotAuthorizedException
		userNotFound  *types.UserNotFoundException
		notConfirmed  *types.UserNotConfirmedException
		exists        *types.UsernameExistsException
		mismatch      *types.CodeMismatchException
		expired       *types.ExpiredCodeException
		badPassword   *types.InvalidPasswordException
	)
	switch {
	case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	case errors.As(err, &notConfirmed):
		return fmt.Errorf("%w: %v", ErrUserNotConfirmed, err)
	case errors.As(err, &exists):
		return fmt.Errorf("%w: %v", ErrUserExists, err)
	case errors.As(err, &mismatch), errors.As(err, &expired):
		return fmt.Errorf("%w: %v", ErrInvalidCode, err)
	case errors.As(err, &badPassword):
		return fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
	}
	return fmt.Errorf("identity provider: %w", err)
}
