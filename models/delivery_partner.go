package models

// DeliveryPartner: static roster entry. Contact numbers are masked for display.
type DeliveryPartner struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PhotoURL string  `json:"photo_url"`
	Contact  string  `json:"contact"`
	Vehicle  string  `json:"vehicle"`
	Rating   float64 `json:"rating"`
}

var DeliveryPartners = []DeliveryPartner{
	{ID: "dp-1", Name: "Rahul Sharma", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-1234", Vehicle: "Bike - DL01 ABC", Rating: 4.8},
	{ID: "dp-2", Name: "Priya Singh", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-5678", Vehicle: "Scooter - MH02 XYZ", Rating: 4.9},
	{ID: "dp-3", Name: "Amit Verma", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-9012", Vehicle: "E-Rickshaw - KA03 LMN", Rating: 4.7},
	{ID: "dp-4", Name: "Sneha Kapoor", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-1111", Vehicle: "Bike - TN04 PQR", Rating: 4.8},
	{ID: "dp-5", Name: "Karan Mehta", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-2222", Vehicle: "Scooter - DL05 STU", Rating: 4.6},
	{ID: "dp-6", Name: "Neha Reddy", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-3333", Vehicle: "Bike - MH06 VWX", Rating: 4.9},
	{ID: "dp-7", Name: "Arjun Nair", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-4444", Vehicle: "E-Rickshaw - KA07 YZ", Rating: 4.7},
	{ID: "dp-8", Name: "Anjali Das", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-5555", Vehicle: "Bike - TN08 BCD", Rating: 4.8},
	{ID: "dp-9", Name: "Rohan Iyer", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-6666", Vehicle: "Scooter - DL09 EFG", Rating: 4.5},
	{ID: "dp-10", Name: "Divya Joshi", PhotoURL: "https://placehold.co/100x100.png", Contact: "****-**-7777", Vehicle: "Bike - MH10 HIJ", Rating: 4.9},
}

// PartnerByID looks up a roster entry; ok=false if the id is unknown.
func PartnerByID(id string) (DeliveryPartner, bool) {
	for _, p := range DeliveryPartners {
		if p.ID == id {
			return p, true
		}
	}
	return DeliveryPartner{}, false
}
