package registry

// Default returns the registry for the upstream trade-data gateway.
// The five entries mirror the gateway's exposed tables: HS commodity
// reference data, two monthly aggregate views, the country/area lookup,
// and raw customs transactions.
func Default() *Registry {
	return New(map[string]Descriptor{
		"commodities": {
			QueryName: "commodities",
			Fields: []string{
				"HS_CODE",
				"DESCRIPTION",
				"HS_LEVEL",
				"PARENT_CODE",
				"IS_LEAF",
			},
			NumericFields:    []string{"HS_LEVEL"},
			FilterInputType:  "CommodityFilterInput",
			OrderByInputType: "CommodityOrderByInput",
			Description:      "Harmonized System commodity reference data",
		},
		"monthly_imports": {
			QueryName: "monthlyImports",
			Fields: []string{
				"YEAR",
				"MONTH",
				"REPORTER_ISO3",
				"PARTNER_ISO3",
				"HS_CODE",
				"TRADE_FLOW",
				"TRADE_VALUE_USD",
				"QUANTITY",
				"QUANTITY_UNIT",
				"NET_WEIGHT_KG",
			},
			NumericFields: []string{
				"YEAR",
				"MONTH",
				"TRADE_VALUE_USD",
				"QUANTITY",
				"NET_WEIGHT_KG",
			},
			FilterInputType:  "MonthlyImportFilterInput",
			OrderByInputType: "MonthlyImportOrderByInput",
			Description:      "Monthly aggregated import flows",
		},
		"monthly_exports": {
			QueryName: "monthlyExports",
			Fields: []string{
				"YEAR",
				"MONTH",
				"REPORTER_ISO3",
				"PARTNER_ISO3",
				"HS_CODE",
				"TRADE_FLOW",
				"TRADE_VALUE_USD",
				"QUANTITY",
				"QUANTITY_UNIT",
				"NET_WEIGHT_KG",
			},
			NumericFields: []string{
				"YEAR",
				"MONTH",
				"TRADE_VALUE_USD",
				"QUANTITY",
				"NET_WEIGHT_KG",
			},
			FilterInputType:  "MonthlyExportFilterInput",
			OrderByInputType: "MonthlyExportOrderByInput",
			Description:      "Monthly aggregated export flows",
		},
		"countries": {
			QueryName: "countryAreas",
			Fields: []string{
				"COUNTRY_ID",
				"NAME",
				"ISO3",
				"ISO2",
				"REGION",
				"SUB_REGION",
				"IS_GROUP",
			},
			NumericFields:    []string{"COUNTRY_ID"},
			FilterInputType:  "CountryAreaFilterInput",
			OrderByInputType: "CountryAreaOrderByInput",
			Description:      "Country and area lookup",
		},
		"transactions": {
			QueryName: "tradeTransactions",
			Fields: []string{
				"TRANSACTION_ID",
				"YEAR",
				"MONTH",
				"TRADE_FLOW",
				"REPORTER_ISO3",
				"PARTNER_ISO3",
				"HS_CODE",
				"TRADE_VALUE_USD",
				"QUANTITY",
				"QUANTITY_UNIT",
				"CUSTOMS_OFFICE",
			},
			NumericFields: []string{
				"YEAR",
				"MONTH",
				"TRADE_VALUE_USD",
				"QUANTITY",
			},
			FilterInputType:  "TradeTransactionFilterInput",
			OrderByInputType: "TradeTransactionOrderByInput",
			Description:      "Raw customs transaction records",
		},
	})
}
