package grant

import "context"

// ClientCredentials implements the Client Credentials grant of
// section 4.8: the client authenticates as its own principal (sub=aud=
// client_id) and receives an access token only — no refresh token is
// issued, since there is no resource owner session to extend.
func ClientCredentials(ctx context.Context, d Deps, p Params) (Result, error) {
	client, err := d.Clients.Authenticate(ctx, p.ClientID, p.ClientSecret, string(TypeClientCredentials))
	if err != nil {
		return Result{}, err
	}

	scope, err := resolveScope(p.Scope, client)
	if err != nil {
		return Result{}, err
	}

	result, _, _, err := issuePair(d, client.ID, client.ID, scope, true)
	return result, err
}
