package grant

import "context"

// Password implements the Resource Owner Password Credentials grant of
// section 4.8: authenticate the client and the user, validate the
// requested scope, and issue an access/refresh pair bound to the user.
func Password(ctx context.Context, d Deps, p Params) (Result, error) {
	client, err := d.Clients.Authenticate(ctx, p.ClientID, p.ClientSecret, string(TypePassword))
	if err != nil {
		return Result{}, err
	}

	user, err := d.Users.Authenticate(ctx, p.Username, p.Password)
	if err != nil {
		return Result{}, err
	}

	scope, err := resolveScope(p.Scope, client)
	if err != nil {
		return Result{}, err
	}

	result, _, _, err := issuePair(d, user.ID, client.ID, scope, false)
	return result, err
}
