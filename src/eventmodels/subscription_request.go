package eventmodels

type SubscriptionMethod string

const (
	SubscribeNewToken       SubscriptionMethod = "subscribeNewToken"
	SubscribeTokenTrade     SubscriptionMethod = "subscribeTokenTrade"
	SubscribeAccountTrade   SubscriptionMethod = "subscribeAccountTrade"
	UnsubscribeTokenTrade   SubscriptionMethod = "unsubscribeTokenTrade"
	UnsubscribeAccountTrade SubscriptionMethod = "unsubscribeAccountTrade"
)

type SubscriptionRequest struct {
	Method SubscriptionMethod `json:"method"`
	Keys   []string           `json:"keys,omitempty"`
}

func NewSubscriptionRequest(method SubscriptionMethod, keys ...string) SubscriptionRequest {
	return SubscriptionRequest{
		Method: method,
		Keys:   keys,
	}
}
