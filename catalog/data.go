package catalog

// builtinEntries is the bundled layer table, used when no CRCON API is
// available to fetch the live map list from.
func builtinEntries() []MapEntry {
	return []MapEntry{
		{Mode: ModeWarfare, Name: "Carentan", Variants: []Variant{
			{ID: "carentan_warfare", Label: "Day"},
			{ID: "carentan_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Driel", Variants: []Variant{
			{ID: "driel_warfare", Label: "Day"},
			{ID: "driel_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "El Alamein", Variants: []Variant{
			{ID: "elalamein_warfare", Label: "Day"},
			{ID: "elalamein_warfare_night", Label: "Dusk"},
		}},
		{Mode: ModeWarfare, Name: "Elsenborn Ridge", Variants: []Variant{
			{ID: "elsenbornridge_warfare_day", Label: "Day"},
			{ID: "elsenbornridge_warfare_morning", Label: "Dawn"},
			{ID: "elsenbornridge_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Foy", Variants: []Variant{
			{ID: "foy_warfare", Label: "Day"},
			{ID: "foy_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Hill 400", Variants: []Variant{
			{ID: "hill400_warfare", Label: "Day"},
		}},
		{Mode: ModeWarfare, Name: "Hurtgen Forest", Variants: []Variant{
			{ID: "hurtgenforest_warfare_V2", Label: "Day"},
			{ID: "hurtgenforest_warfare_V2_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Kharkov", Variants: []Variant{
			{ID: "kharkov_warfare", Label: "Day"},
			{ID: "kharkov_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Kursk", Variants: []Variant{
			{ID: "kursk_warfare", Label: "Day"},
			{ID: "kursk_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Mortain", Variants: []Variant{
			{ID: "mortain_warfare_day", Label: "Day"},
			{ID: "mortain_warfare_dusk", Label: "Dusk"},
			{ID: "mortain_warfare_overcast", Label: "Overcast"},
		}},
		{Mode: ModeWarfare, Name: "Omaha Beach", Variants: []Variant{
			{ID: "omahabeach_warfare", Label: "Day"},
			{ID: "omahabeach_warfare_night", Label: "Dusk"},
		}},
		{Mode: ModeWarfare, Name: "Purple Heart Lane", Variants: []Variant{
			{ID: "PHL_L_1944_Warfare", Label: "Rain"},
			{ID: "PHL_L_1944_Warfare_Night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Remagen", Variants: []Variant{
			{ID: "remagen_warfare", Label: "Day"},
			{ID: "remagen_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Stalingrad", Variants: []Variant{
			{ID: "stalingrad_warfare", Label: "Day"},
			{ID: "stalingrad_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "St. Marie Du Mont", Variants: []Variant{
			{ID: "stmariedumont_warfare", Label: "Day"},
			{ID: "stmariedumont_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "St. Mere Eglise", Variants: []Variant{
			{ID: "stmereeglise_warfare", Label: "Day"},
			{ID: "stmereeglise_warfare_night", Label: "Night"},
		}},
		{Mode: ModeWarfare, Name: "Tobruk", Variants: []Variant{
			{ID: "tobruk_warfare_day", Label: "Day"},
			{ID: "tobruk_warfare_dusk", Label: "Dusk"},
			{ID: "tobruk_warfare_morning", Label: "Dawn"},
		}},
		{Mode: ModeWarfare, Name: "Utah Beach", Variants: []Variant{
			{ID: "utahbeach_warfare", Label: "Day"},
			{ID: "utahbeach_warfare_night", Label: "Night"},
		}},

		{Mode: ModeOffensive, Name: "Carentan", Variants: []Variant{
			{ID: "carentan_offensive_ger", Label: "GER Attack"},
			{ID: "carentan_offensive_us", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "Driel", Variants: []Variant{
			{ID: "driel_offensive_ger", Label: "GER Attack"},
			{ID: "driel_offensive_us", Label: "GB Attack"},
		}},
		{Mode: ModeOffensive, Name: "El Alamein", Variants: []Variant{
			{ID: "elalamein_offensive_CW", Label: "GB Attack"},
			{ID: "elalamein_offensive_ger", Label: "GER Attack"},
		}},
		{Mode: ModeOffensive, Name: "Elsenborn Ridge", Variants: []Variant{
			{ID: "elsenbornridge_offensiveUS_day", Label: "US Attack (Day)"},
			{ID: "elsenbornridge_offensiveUS_morning", Label: "US Attack (Dawn)"},
			{ID: "elsenbornridge_offensiveUS_night", Label: "US Attack (Night)"},
			{ID: "elsenbornridge_offensiveger_day", Label: "GER Attack (Day)"},
			{ID: "elsenbornridge_offensiveger_morning", Label: "GER Attack (Dawn)"},
			{ID: "elsenbornridge_offensiveger_night", Label: "GER Attack (Night)"},
		}},
		{Mode: ModeOffensive, Name: "Foy", Variants: []Variant{
			{ID: "foy_offensive_ger", Label: "GER Attack"},
			{ID: "foy_offensive_us", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "Hill 400", Variants: []Variant{
			{ID: "hill400_offensive_US", Label: "US Attack"},
			{ID: "hill400_offensive_ger", Label: "GER Attack"},
		}},
		{Mode: ModeOffensive, Name: "Hurtgen Forest", Variants: []Variant{
			{ID: "hurtgenforest_offensive_US", Label: "US Attack"},
			{ID: "hurtgenforest_offensive_ger", Label: "GER Attack"},
		}},
		{Mode: ModeOffensive, Name: "Kharkov", Variants: []Variant{
			{ID: "kharkov_offensive_ger", Label: "GER Attack"},
			{ID: "kharkov_offensive_rus", Label: "RUS Attack"},
		}},
		{Mode: ModeOffensive, Name: "Kursk", Variants: []Variant{
			{ID: "kursk_offensive_ger", Label: "GER Attack"},
			{ID: "kursk_offensive_rus", Label: "RUS Attack"},
		}},
		{Mode: ModeOffensive, Name: "Mortain", Variants: []Variant{
			{ID: "mortain_offensiveUS_day", Label: "US Attack (Day)"},
			{ID: "mortain_offensiveUS_dusk", Label: "US Attack (Dusk)"},
			{ID: "mortain_offensiveUS_overcast", Label: "US Attack (Overcast)"},
			{ID: "mortain_offensiveger_day", Label: "GER Attack (Day)"},
			{ID: "mortain_offensiveger_dusk", Label: "GER Attack (Dusk)"},
			{ID: "mortain_offensiveger_overcast", Label: "GER Attack (Overcast)"},
		}},
		{Mode: ModeOffensive, Name: "Omaha Beach", Variants: []Variant{
			{ID: "omahabeach_offensive_ger", Label: "GER Attack"},
			{ID: "omahabeach_offensive_us", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "Purple Heart Lane", Variants: []Variant{
			{ID: "PHL_L_1944_OffensiveGER", Label: "GER Attack"},
			{ID: "PHL_L_1944_OffensiveUS", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "Remagen", Variants: []Variant{
			{ID: "remagen_offensive_ger", Label: "GER Attack"},
			{ID: "remagen_offensive_us", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "Stalingrad", Variants: []Variant{
			{ID: "stalingrad_offensive_ger", Label: "GER Attack"},
			{ID: "stalingrad_offensive_rus", Label: "RUS Attack"},
		}},
		{Mode: ModeOffensive, Name: "St. Marie Du Mont", Variants: []Variant{
			{ID: "stmariedumont_off_ger", Label: "GER Attack"},
			{ID: "stmariedumont_off_us", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "St. Mere Eglise", Variants: []Variant{
			{ID: "stmereeglise_offensive_ger", Label: "GER Attack"},
			{ID: "stmereeglise_offensive_us", Label: "US Attack"},
		}},
		{Mode: ModeOffensive, Name: "Tobruk", Variants: []Variant{
			{ID: "tobruk_offensivebritish_day", Label: "GB Attack (Day)"},
			{ID: "tobruk_offensivebritish_dusk", Label: "GB Attack (Dusk)"},
			{ID: "tobruk_offensivebritish_morning", Label: "GB Attack (Dawn)"},
			{ID: "tobruk_offensiveger_day", Label: "GER Attack (Day)"},
			{ID: "tobruk_offensiveger_dusk", Label: "GER Attack (Dusk)"},
			{ID: "tobruk_offensiveger_morning", Label: "GER Attack (Dawn)"},
		}},
		{Mode: ModeOffensive, Name: "Utah Beach", Variants: []Variant{
			{ID: "utahbeach_offensive_ger", Label: "GER Attack"},
			{ID: "utahbeach_offensive_us", Label: "US Attack"},
		}},

		{Mode: ModeSkirmish, Name: "Carentan", Variants: []Variant{
			{ID: "CAR_S_1944_Day_P_Skirmish", Label: "Day"},
			{ID: "CAR_S_1944_Dusk_P_Skirmish", Label: "Dusk"},
			{ID: "CAR_S_1944_Rain_P_Skirmish", Label: "Rain"},
		}},
		{Mode: ModeSkirmish, Name: "Driel", Variants: []Variant{
			{ID: "DRL_S_1944_Day_P_Skirmish", Label: "Day"},
			{ID: "DRL_S_1944_Night_P_Skirmish", Label: "Night"},
			{ID: "DRL_S_1944_P_Skirmish", Label: "Dawn"},
		}},
		{Mode: ModeSkirmish, Name: "El Alamein", Variants: []Variant{
			{ID: "ELA_S_1942_Night_P_Skirmish", Label: "Dusk"},
			{ID: "ELA_S_1942_P_Skirmish", Label: "Day"},
		}},
		{Mode: ModeSkirmish, Name: "Elsenborn Ridge", Variants: []Variant{
			{ID: "elsenbornridge_skirmish_day", Label: "Day"},
			{ID: "elsenbornridge_skirmish_morning", Label: "Dawn"},
			{ID: "elsenbornridge_skirmish_night", Label: "Night"},
		}},
		{Mode: ModeSkirmish, Name: "Hill 400", Variants: []Variant{
			{ID: "HIL_S_1944_Day_P_Skirmish", Label: "Day"},
			{ID: "HIL_S_1944_Dusk_P_Skirmish", Label: "Dusk"},
		}},
		{Mode: ModeSkirmish, Name: "Mortain", Variants: []Variant{
			{ID: "mortain_skirmish_day", Label: "Day"},
			{ID: "mortain_skirmish_dusk", Label: "Dusk"},
			{ID: "mortain_skirmish_overcast", Label: "Overcast"},
		}},
		{Mode: ModeSkirmish, Name: "Purple Heart Lane", Variants: []Variant{
			{ID: "PHL_S_1944_Morning_P_Skirmish", Label: "Dawn"},
			{ID: "PHL_S_1944_Night_P_Skirmish", Label: "Night"},
			{ID: "PHL_S_1944_Rain_P_Skirmish", Label: "Rain"},
		}},
		{Mode: ModeSkirmish, Name: "St. Marie Du Mont", Variants: []Variant{
			{ID: "SMDM_S_1944_Day_P_Skirmish", Label: "Day"},
			{ID: "SMDM_S_1944_Night_P_Skirmish", Label: "Night"},
			{ID: "SMDM_S_1944_Rain_P_Skirmish", Label: "Rain"},
		}},
		{Mode: ModeSkirmish, Name: "St. Mere Eglise", Variants: []Variant{
			{ID: "SME_S_1944_Day_P_Skirmish", Label: "Day"},
			{ID: "SME_S_1944_Morning_P_Skirmish", Label: "Dawn"},
			{ID: "SME_S_1944_Night_P_Skirmish", Label: "Night"},
		}},
		{Mode: ModeSkirmish, Name: "Tobruk", Variants: []Variant{
			{ID: "tobruk_skirmish_day", Label: "Day"},
			{ID: "tobruk_skirmish_dusk", Label: "Dusk"},
			{ID: "tobruk_skirmish_morning", Label: "Dawn"},
		}},
	}
}
