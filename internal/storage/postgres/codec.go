package postgres

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/calyxhq/calyx/internal/domain/fulfillment"
	"github.com/calyxhq/calyx/internal/domain/order"
)

// JSONB codecs for the nested collections stored inside order and
// fulfillment rows. Monetary values travel as strings so NUMERIC precision
// survives the round trip.

func encodeLineItems(items []*order.LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, item := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(item.ID)
		e.FieldStart("title")
		e.Str(item.Title)
		e.FieldStart("unit_price")
		e.Str(item.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.FieldStart("detail")
		e.ObjStart()
		e.FieldStart("quantity")
		e.Int(item.Detail.Quantity)
		e.FieldStart("fulfilled_quantity")
		e.Int(item.Detail.FulfilledQuantity)
		e.FieldStart("shipped_quantity")
		e.Int(item.Detail.ShippedQuantity)
		e.FieldStart("return_requested_quantity")
		e.Int(item.Detail.ReturnRequestedQuantity)
		e.FieldStart("return_received_quantity")
		e.Int(item.Detail.ReturnReceivedQuantity)
		e.FieldStart("return_dismissed_quantity")
		e.Int(item.Detail.ReturnDismissedQuantity)
		e.FieldStart("written_off_quantity")
		e.Int(item.Detail.WrittenOffQuantity)
		e.ObjEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeLineItems(data []byte) ([]*order.LineItem, error) {
	var items []*order.LineItem
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		item := &order.LineItem{}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				return decodeStr(d, &item.ID)
			case "title":
				return decodeStr(d, &item.Title)
			case "unit_price":
				return decodeDecimal(d, &item.UnitPrice)
			case "quantity":
				return decodeInt(d, &item.Quantity)
			case "detail":
				return d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "quantity":
						return decodeInt(d, &item.Detail.Quantity)
					case "fulfilled_quantity":
						return decodeInt(d, &item.Detail.FulfilledQuantity)
					case "shipped_quantity":
						return decodeInt(d, &item.Detail.ShippedQuantity)
					case "return_requested_quantity":
						return decodeInt(d, &item.Detail.ReturnRequestedQuantity)
					case "return_received_quantity":
						return decodeInt(d, &item.Detail.ReturnReceivedQuantity)
					case "return_dismissed_quantity":
						return decodeInt(d, &item.Detail.ReturnDismissedQuantity)
					case "written_off_quantity":
						return decodeInt(d, &item.Detail.WrittenOffQuantity)
					default:
						return d.Skip()
					}
				})
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode line items")
	}
	return items, nil
}

func encodeShippingMethods(methods []*order.ShippingMethod) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, sm := range methods {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(sm.ID)
		e.FieldStart("name")
		e.Str(sm.Name)
		e.FieldStart("shipping_option_id")
		e.Str(sm.ShippingOptionID)
		e.FieldStart("amount")
		e.Str(sm.Amount.String())
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeShippingMethods(data []byte) ([]*order.ShippingMethod, error) {
	var methods []*order.ShippingMethod
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		sm := &order.ShippingMethod{}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				return decodeStr(d, &sm.ID)
			case "name":
				return decodeStr(d, &sm.Name)
			case "shipping_option_id":
				return decodeStr(d, &sm.ShippingOptionID)
			case "amount":
				return decodeDecimal(d, &sm.Amount)
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		methods = append(methods, sm)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode shipping methods")
	}
	return methods, nil
}

func encodeActions(actions []order.ChangeAction) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, a := range actions {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(a.ID)
		e.FieldStart("reference_id")
		e.Str(a.ReferenceID)
		e.FieldStart("action")
		e.Str(string(a.Action))
		if a.HasAmount {
			e.FieldStart("amount")
			e.Str(a.Amount.String())
		}
		e.FieldStart("details")
		e.ObjStart()
		e.FieldStart("reference_id")
		e.Str(a.Details.ReferenceID)
		e.FieldStart("quantity")
		e.Int(a.Details.Quantity)
		e.FieldStart("quantity_diff")
		e.Int(a.Details.QuantityDiff)
		if a.Details.HasUnitPrice {
			e.FieldStart("unit_price")
			e.Str(a.Details.UnitPrice.String())
		}
		if a.Details.HasAmount {
			e.FieldStart("amount")
			e.Str(a.Details.Amount.String())
		}
		e.FieldStart("title")
		e.Str(a.Details.Title)
		e.ObjEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeActions(data []byte) ([]order.ChangeAction, error) {
	var actions []order.ChangeAction
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var a order.ChangeAction
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				return decodeStr(d, &a.ID)
			case "reference_id":
				return decodeStr(d, &a.ReferenceID)
			case "action":
				s, err := d.Str()
				if err != nil {
					return err
				}
				a.Action = order.ActionType(s)
				return nil
			case "amount":
				a.HasAmount = true
				return decodeDecimal(d, &a.Amount)
			case "details":
				return d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "reference_id":
						return decodeStr(d, &a.Details.ReferenceID)
					case "quantity":
						return decodeInt(d, &a.Details.Quantity)
					case "quantity_diff":
						return decodeInt(d, &a.Details.QuantityDiff)
					case "unit_price":
						a.Details.HasUnitPrice = true
						return decodeDecimal(d, &a.Details.UnitPrice)
					case "amount":
						a.Details.HasAmount = true
						return decodeDecimal(d, &a.Details.Amount)
					case "title":
						return decodeStr(d, &a.Details.Title)
					default:
						return d.Skip()
					}
				})
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		actions = append(actions, a)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode actions")
	}
	return actions, nil
}

func encodeGeoZones(zones []fulfillment.GeoZone) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, z := range zones {
		e.ObjStart()
		e.FieldStart("type")
		e.Str(z.Type)
		e.FieldStart("country_code")
		e.Str(z.CountryCode)
		e.FieldStart("province")
		e.Str(z.Province)
		e.FieldStart("city")
		e.Str(z.City)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeGeoZones(data []byte) ([]fulfillment.GeoZone, error) {
	var zones []fulfillment.GeoZone
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var z fulfillment.GeoZone
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "type":
				return decodeStr(d, &z.Type)
			case "country_code":
				return decodeStr(d, &z.CountryCode)
			case "province":
				return decodeStr(d, &z.Province)
			case "city":
				return decodeStr(d, &z.City)
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		zones = append(zones, z)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode geo zones")
	}
	return zones, nil
}

func decodeStr(d *jx.Decoder, dst *string) error {
	s, err := d.Str()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func decodeInt(d *jx.Decoder, dst *int) error {
	v, err := d.Int()
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func decodeDecimal(d *jx.Decoder, dst *decimal.Decimal) error {
	s, err := d.Str()
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return errors.Wrap(err, "parse decimal")
	}
	*dst = v
	return nil
}
