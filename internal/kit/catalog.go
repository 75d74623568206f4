package kit

// The standard Solstis kit. Keywords are the phrases users and the
// assistant actually say for each item; LED ranges were mapped on the
// production strip (730 pixels) and are inclusive on both ends.
// Keywords must be lower case.
var catalog = []Item{
	{
		ID:          "band-aids",
		DisplayName: "Band-Aids",
		Keywords: []string{
			"band-aid", "band aid", "bandaid", "bandaids", "adhesive bandage",
			"sticky bandage", "wound cover", "cut cover", "small bandage",
		},
		LEDRanges: []Range{{402, 438}, {126, 130}},
	},
	{
		ID:          "gauze-pads",
		DisplayName: "4 inch by 4 inch Gauze Pads",
		Keywords: []string{
			"gauze pad", "gauze pads", "4x4 gauze", "square gauze",
			"sterile gauze", "dressing pad", "wound pad", "gauze square",
			"medical gauze", "absorbent pad", "small gauze",
		},
		LEDRanges: []Range{{581, 623}, {636, 642}, {720, 727}},
	},
	{
		ID:          "roll-gauze",
		DisplayName: "2 inch Roll Gauze",
		Keywords: []string{
			"roll gauze", "gauze roll", "rolled gauze", "gauze wrap",
			"bandage roll", "wrapping gauze", "medical wrap",
		},
		LEDRanges: []Range{{370, 381}, {648, 661}, {341, 356}},
	},
	{
		ID:          "abd-pad",
		DisplayName: "5 inch by 9 inch ABD Pad",
		Keywords: []string{
			"abd pad", "abdominal pad", "large pad", "big pad", "5x9 pad",
			"large gauze", "major wound pad", "heavy bleeding pad",
		},
		LEDRanges: []Range{{294, 326}, {86, 102}},
	},
	{
		ID:          "medical-tape",
		DisplayName: "Cloth Medical Tape",
		Keywords: []string{
			"medical tape", "cloth tape", "adhesive tape", "surgical tape",
			"wound tape", "bandage tape", "securing tape",
		},
		LEDRanges: []Range{{382, 396}, {335, 341}, {111, 120}},
	},
	{
		ID:          "antibiotic-ointment",
		DisplayName: "Triple Antibiotic Ointment",
		Keywords: []string{
			"antibiotic", "ointment", "triple antibiotic", "neosporin",
			"bacitracin", "polysporin", "antiseptic ointment", "wound ointment",
			"healing ointment", "infection prevention",
		},
		LEDRanges: []Range{{493, 548}, {186, 193}},
	},
	{
		ID:          "tweezers",
		DisplayName: "Tweezers",
		Keywords: []string{
			"tweezers", "blunt tweezers", "forceps", "splinter removal",
			"debris removal", "tick removal", "splinter tool",
		},
		LEDRanges: []Range{{464, 517}, {455, 456}, {420, 422}},
	},
	{
		ID:          "trauma-shears",
		DisplayName: "Trauma Shears",
		Keywords: []string{
			"scissors", "shears", "trauma shears", "medical scissors",
			"cutting tool", "bandage scissors", "safety scissors",
		},
		LEDRanges: []Range{{461, 488}, {153, 182}},
	},
	{
		ID:          "quickclot-gauze",
		DisplayName: "QuickClot Gauze",
		Keywords: []string{
			"quickclot", "hemostatic", "hemostatic gauze", "bleeding control",
			"blood stopper", "clotting agent", "severe bleeding",
		},
		LEDRanges: []Range{{62, 86}, {270, 293}, {264, 264}},
	},
	{
		ID:          "burn-gel-dressing",
		DisplayName: "Burn Gel Dressing",
		Keywords: []string{
			"burn gel", "burn dressing", "burn treatment", "thermal burn",
			"burn relief", "cooling gel",
		},
		LEDRanges: []Range{{241, 262}, {220, 226}, {601, 629}},
	},
	{
		ID:          "burn-spray",
		DisplayName: "Burn Spray",
		Keywords: []string{
			"burn spray", "spray burn", "burn mist", "cooling spray",
			"thermal spray", "burn relief spray",
		},
		LEDRanges: []Range{{41, 62}, {234, 269}, {226, 226}},
	},
	{
		ID:          "sting-bite-wipes",
		DisplayName: "Sting & Bite Relief Wipes",
		Keywords: []string{
			"sting", "bite relief", "insect bite", "bee sting", "wasp sting",
			"ant bite", "mosquito bite", "bite treatment", "itch relief",
			"sting wipes", "bite wipes",
		},
		LEDRanges: []Range{{661, 678}, {386, 389}, {370, 377}},
	},
	{
		ID:          "eye-wash",
		DisplayName: "Mini Eye Wash Bottle",
		Keywords: []string{
			"eye wash", "eyewash", "eye rinse", "eye irrigation", "eye flush",
			"eye cleaning", "eye emergency", "eye decontamination",
		},
		LEDRanges: []Range{{130, 153}, {439, 460}},
	},
	{
		ID:          "glucose-gel",
		DisplayName: "Oral Glucose Gel",
		Keywords: []string{
			"glucose", "glucose gel", "sugar gel", "diabetic emergency",
			"low blood sugar", "hypoglycemia", "oral glucose",
			"blood sugar emergency",
		},
		LEDRanges: []Range{{303, 317}, {275, 285}, {630, 647}, {263, 264}, {352, 356}},
	},
	{
		ID:          "electrolyte-powder",
		DisplayName: "Electrolyte Powder Pack",
		Keywords: []string{
			"electrolyte", "electrolyte powder", "hydration powder",
			"rehydration", "dehydration", "mineral powder", "hydration mix",
			"fluid replacement",
		},
		LEDRanges: []Range{{691, 705}, {523, 567}},
	},
	{
		ID:          "ace-bandage",
		DisplayName: "Elastic Ace Bandage",
		Keywords: []string{
			"ace bandage", "elastic bandage", "compression bandage",
			"wrap bandage", "support bandage", "elastic wrap",
			"compression wrap",
		},
		LEDRanges: []Range{{318, 352}},
	},
	{
		ID:          "cold-pack",
		DisplayName: "Instant Cold Pack",
		Keywords: []string{
			"cold pack", "ice pack", "instant cold", "cooling pack",
			"cold therapy", "ice therapy", "swelling reduction",
		},
		LEDRanges: []Range{{706, 719}, {199, 212}, {581, 594}, {553, 567}},
	},
	{
		ID:          "triangle-bandage",
		DisplayName: "Triangle Bandage",
		Keywords: []string{
			"triangle bandage", "triangular bandage", "sling", "arm sling",
			"shoulder support", "immobilization", "fracture support",
			"arm support",
		},
		LEDRanges: []Range{{390, 418}, {679, 690}, {519, 523}},
	},
}

// Catalog returns the standard kit. Callers must not mutate the result.
func Catalog() []Item {
	return catalog
}
