package user

import (
	"encoding/json"
	"strings"
	"testing"

	"fakestore_back_end/internal/fieldmask"
	"fakestore_back_end/internal/models"
)

func patchUser(t *testing.T, u *models.User, body string) bool {
	t.Helper()

	mask, err := fieldmask.FromJSON([]byte(body))
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	var payload userPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	return mergeUser(u, payload, mask)
}

func TestMergeUserOnlyTouchesMaskedFields(t *testing.T) {
	u := &models.User{
		ID:       1,
		Email:    "john@gmail.com",
		Username: "johnd",
		Phone:    "1-570-236-7033",
		Name:     models.Name{Firstname: "John", Lastname: "Doe"},
	}

	if changed := patchUser(t, u, `{"email": "john.doe@gmail.com"}`); changed {
		t.Error("no password in payload, passwordChanged must be false")
	}

	if u.Email != "john.doe@gmail.com" {
		t.Errorf("Email = %q", u.Email)
	}
	if u.Username != "johnd" || u.Phone != "1-570-236-7033" {
		t.Errorf("unmasked fields must stay untouched: %+v", u)
	}
}

func TestMergeUserNestedNameMerge(t *testing.T) {
	u := &models.User{ID: 1, Name: models.Name{Firstname: "John", Lastname: "Doe"}}

	patchUser(t, u, `{"name": {"lastname": "Durand"}}`)

	if u.Name.Firstname != "John" {
		t.Errorf("firstname was not in the payload and must survive, got %q", u.Name.Firstname)
	}
	if u.Name.Lastname != "Durand" {
		t.Errorf("lastname = %q, want Durand", u.Name.Lastname)
	}
}

func TestMergeUserPasswordChangeFlag(t *testing.T) {
	u := &models.User{ID: 1, Password: "$argon2id$..."}

	if changed := patchUser(t, u, `{"password": "newpass"}`); !changed {
		t.Error("expected passwordChanged to be true")
	}
	if u.Password != "$argon2id$..." {
		t.Error("mergeUser must never write the password, hashing is the handler's job")
	}
}

func TestMergeUserCreatesAddressWhenMissing(t *testing.T) {
	u := &models.User{ID: 1}

	patchUser(t, u, `{"address": {"city": "Lyon", "zipcode": "69001"}}`)

	if u.Address == nil {
		t.Fatal("expected an address to be created")
	}
	if u.Address.City != "Lyon" || u.Address.Zipcode != "69001" {
		t.Errorf("address = %+v", u.Address)
	}
	if u.Address.Street != "" || u.Address.Number != 0 {
		t.Errorf("fields not in the payload must stay zero: %+v", u.Address)
	}
}

func TestMergeUserNestedGeolocationMerge(t *testing.T) {
	lat, long := "45.75", "4.85"
	u := &models.User{
		ID:      1,
		Address: &models.Address{City: "Lyon", Geolocation: models.Geolocation{Lat: &lat, Long: &long}},
	}

	patchUser(t, u, `{"address": {"geolocation": {"lat": "48.85"}}}`)

	if u.Address.Geolocation.Lat == nil || *u.Address.Geolocation.Lat != "48.85" {
		t.Errorf("lat = %v, want 48.85", u.Address.Geolocation.Lat)
	}
	if u.Address.Geolocation.Long == nil || *u.Address.Geolocation.Long != "4.85" {
		t.Errorf("long was not in the payload and must survive, got %v", u.Address.Geolocation.Long)
	}
	if u.Address.City != "Lyon" {
		t.Errorf("city must survive, got %q", u.Address.City)
	}
}

func TestUserJSONNeverExposesPassword(t *testing.T) {
	u := models.User{
		ID:       1,
		Email:    "john@gmail.com",
		Username: "johnd",
		Password: "$argon2id$secret",
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if strings.Contains(string(raw), "argon2id") || strings.Contains(string(raw), "password") {
		t.Errorf("password leaked in JSON: %s", raw)
	}
}

func TestUserJSONNullAddress(t *testing.T) {
	raw, err := json.Marshal(models.User{ID: 1})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if v, ok := decoded["address"]; !ok || v != nil {
		t.Errorf("a user without address must serialize address as null, got %v", decoded)
	}
}
