package http

import (
	"time"

	"courier-dispatch/internal/core/application/usecases/queries"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
	"courier-dispatch/internal/core/ports"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
}

type Recipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type NewRequest struct {
	Item          string    `json:"item"`
	Recipient     Recipient `json:"recipient"`
	Pickup        Address   `json:"pickup"`
	Dropoff       Address   `json:"dropoff"`
	PaymentMethod string    `json:"payment_method"`
	Payer         string    `json:"payer"`
}

type AdvanceStatus struct {
	CourierID string `json:"courier_id"`
	Status    string `json:"status"`
}

type NewCourier struct {
	Name     string    `json:"name"`
	Location *Location `json:"location"`
}

type OfferDecision struct {
	RequestID string `json:"request_id"`
}

type Place struct {
	Location    Location `json:"location"`
	DisplayName string   `json:"display_name"`
	Precision   string   `json:"precision"`
}

type Stop struct {
	Address Address `json:"address"`
	Place   *Place  `json:"place"`
}

type Request struct {
	ID            string    `json:"id"`
	Item          string    `json:"item"`
	Recipient     Recipient `json:"recipient"`
	Pickup        Stop      `json:"pickup"`
	Dropoff       Stop      `json:"dropoff"`
	PaymentMethod string    `json:"payment_method"`
	Payer         string    `json:"payer"`
	Status        string    `json:"status"`
	CourierID     *string   `json:"courier_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type Courier struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Location        Location `json:"location"`
	Online          bool     `json:"online"`
	Busy            bool     `json:"busy"`
	ActiveRequestID *string  `json:"active_request_id"`
	OfferRequestID  *string  `json:"offer_request_id"`
}

type Offer struct {
	CourierID string   `json:"courier_id"`
	Request   Request  `json:"request"`
	Ignored   []string `json:"ignored"`
}

type Leg struct {
	Kind        string   `json:"kind"`
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	Terminal    bool     `json:"terminal"`
}

type Path struct {
	Source string     `json:"source"`
	Points []Location `json:"points"`
}

type ActiveRoute struct {
	RequestID string   `json:"request_id"`
	Status    string   `json:"status"`
	Leg       Leg      `json:"leg"`
	Path      Path     `json:"path"`
	Position  Location `json:"position"`
	Progress  float64  `json:"progress"`
	Simulated bool     `json:"simulated"`
}

// StreamEvent is one message on the websocket stream.
type StreamEvent struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  *string   `json:"request_id,omitempty"`
	CourierID  *string   `json:"courier_id,omitempty"`
	Position   *Location `json:"position,omitempty"`
	Online     *bool     `json:"online,omitempty"`
	Request    *Request  `json:"request,omitempty"`
}

func (a Address) toDomain() kernel.Address {
	return kernel.NewAddress(a.Street, a.Number, a.Neighborhood, a.City)
}

func fromLocation(l kernel.Location) Location {
	return Location{Lat: l.Lat(), Lng: l.Lng()}
}

func fromAddress(a kernel.Address) Address {
	return Address{
		Street:       a.Street(),
		Number:       a.Number(),
		Neighborhood: a.Neighborhood(),
		City:         a.City(),
	}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func fromStop(r *delivery.Request, stop delivery.Stop) Stop {
	out := Stop{Address: fromAddress(r.Address(stop))}
	if place, ok := r.Place(stop); ok {
		out.Place = &Place{
			Location:    fromLocation(place.Location()),
			DisplayName: place.DisplayName(),
			Precision:   place.Precision().String(),
		}
	}
	return out
}

func fromRequest(r *delivery.Request) Request {
	return Request{
		ID:   r.ID().String(),
		Item: r.Item(),
		Recipient: Recipient{
			Name:  r.Recipient().Name(),
			Phone: r.Recipient().Phone(),
		},
		Pickup:        fromStop(r, delivery.StopPickup),
		Dropoff:       fromStop(r, delivery.StopDropoff),
		PaymentMethod: r.PaymentMethod().String(),
		Payer:         r.Payer().String(),
		Status:        r.Status().String(),
		CourierID:     optionalID(r.Courier()),
		CreatedAt:     r.CreatedAt(),
	}
}

func fromRequests(requests []*delivery.Request) []Request {
	out := make([]Request, len(requests))
	for i, r := range requests {
		out[i] = fromRequest(r)
	}
	return out
}

func fromCourier(c queries.GetAllCouriersQueryResponse) Courier {
	return Courier{
		ID:              c.ID.String(),
		Name:            c.Name,
		Location:        fromLocation(c.Location),
		Online:          c.Online,
		Busy:            c.Busy(),
		ActiveRequestID: optionalID(c.ActiveRequestID),
		OfferRequestID:  optionalID(c.OfferRequestID),
	}
}

func fromOffer(o queries.GetCurrentOfferQueryResponse) Offer {
	ignored := make([]string, len(o.Ignored))
	for i, id := range o.Ignored {
		ignored[i] = id.String()
	}
	return Offer{
		CourierID: o.CourierID.String(),
		Request:   fromRequest(o.Request),
		Ignored:   ignored,
	}
}

func fromPath(p route.Path) Path {
	points := make([]Location, 0, len(p.Points()))
	for _, point := range p.Points() {
		points = append(points, fromLocation(point))
	}
	return Path{Source: p.Source().String(), Points: points}
}

func fromActiveRoute(r queries.GetActiveRouteQueryResponse) ActiveRoute {
	return ActiveRoute{
		RequestID: r.Request.ID().String(),
		Status:    r.Request.Status().String(),
		Leg: Leg{
			Kind:        r.Leg.Kind().String(),
			Origin:      fromLocation(r.Leg.Origin()),
			Destination: fromLocation(r.Leg.Destination()),
			Terminal:    r.Leg.IsTerminal(),
		},
		Path:      fromPath(r.Path),
		Position:  fromLocation(r.Position),
		Progress:  r.Progress,
		Simulated: r.Simulated,
	}
}

func fromEvent(event ports.Event) StreamEvent {
	out := StreamEvent{
		Kind:       string(event.Kind),
		OccurredAt: event.OccurredAt,
	}
	if event.RequestID.Validate() == nil {
		id := event.RequestID.String()
		out.RequestID = &id
	}
	if event.CourierID.Validate() == nil {
		id := event.CourierID.String()
		out.CourierID = &id
	}
	if event.Position.Validate() == nil {
		p := fromLocation(event.Position)
		out.Position = &p
	}
	if event.Kind == ports.EventCourierAvailability {
		online := event.Online
		out.Online = &online
	}
	if event.Request != nil {
		r := fromRequest(event.Request)
		out.Request = &r
	}
	return out
}
