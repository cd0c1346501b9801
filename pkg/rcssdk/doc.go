/*
Package rcssdk is a client for the Remote Consent Service.

The service keeps the lifecycle of Open Banking consents: creation by the
gateway on behalf of a TPP, the PSU's decision, and consumption when the
payment or data access is carried out. Every consent call identifies the TPP
with an API client id, which the client sends on each request:

	client := rcssdk.NewClient("http://rcs:8080", "client-1")

	consent, created, err := client.CreateConsent(ctx, "domestic-payment-consents", "idem-123",
		rcssdk.CreateConsentRequest{RequestObj: payload})

Replaying the same idempotency key returns the original consent with created
set to false.

The approval UI reads the details view and submits the PSU's decision. The
decision response carries a JWT signed by the service, verifiable against the
keys published by GetJWKS:

	details, err := client.GetConsentDetails(ctx, consent.ConsentID, "psu4test")

	decision, err := client.SubmitDecision(ctx, rcssdk.DecisionRequest{
		IntentID:        consent.ConsentID,
		ResourceOwnerID: "psu4test",
		Decision:        rcssdk.DecisionAuthorised,
		DebtorAccountID: details.Accounts[0].AccountID,
	})

Failures are returned as *APIError with the stable error code of the service:

	var apiErr *rcssdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == rcssdk.CodeInvalidPermissions {
		// the consent belongs to another TPP
	}
*/
package rcssdk
