package fieldmask

import "testing"

func TestFromJSONTopLevelKeys(t *testing.T) {
	mask, err := FromJSON([]byte(`{"title": "Chaise", "price": 12.5}`))
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}

	if !mask.Has("title") || !mask.Has("price") {
		t.Errorf("expected title and price present, got %v", mask)
	}
	if mask.Has("description") {
		t.Error("description was not in the payload")
	}
}

func TestFromJSONNullValueCountsAsPresent(t *testing.T) {
	mask, err := FromJSON([]byte(`{"image": null}`))
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	if !mask.Has("image") {
		t.Error("a null value still marks the key as present")
	}
}

func TestFromJSONNestedObjects(t *testing.T) {
	raw := []byte(`{"address": {"city": "Lyon", "geolocation": {"lat": "45.75"}}}`)
	mask, err := FromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}

	address := mask.Sub("address")
	if address == nil {
		t.Fatal("expected a sub-mask for address")
	}
	if !address.Has("city") {
		t.Error("expected city in address sub-mask")
	}
	if address.Has("street") {
		t.Error("street was not in the payload")
	}

	geo := address.Sub("geolocation")
	if geo == nil || !geo.Has("lat") || geo.Has("long") {
		t.Errorf("unexpected geolocation sub-mask: %v", geo)
	}
}

func TestSubOnScalarOrMissingKey(t *testing.T) {
	mask, err := FromJSON([]byte(`{"title": "Chaise"}`))
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}

	if mask.Sub("title") != nil {
		t.Error("Sub on a scalar key must return nil")
	}
	if mask.Sub("rating") != nil {
		t.Error("Sub on a missing key must return nil")
	}
}

func TestSubOnNilMaskIsSafe(t *testing.T) {
	var mask Mask
	if mask.Sub("anything") != nil {
		t.Error("Sub on a nil mask must return nil")
	}
	if mask.Has("anything") {
		t.Error("Has on a nil mask must return false")
	}
}

func TestFromJSONRejectsNonObject(t *testing.T) {
	if _, err := FromJSON([]byte(`[1, 2, 3]`)); err == nil {
		t.Error("expected an error for a non-object payload")
	}
}
