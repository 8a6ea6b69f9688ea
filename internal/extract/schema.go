package extract

import "google.golang.org/genai"

// Instruction is the fixed extraction prompt. The product targets the
// Taiwanese hiring market, so the model is told to answer in Traditional
// Chinese and to return an empty string for any field it cannot find.
const Instruction = "請分析這份履歷，並提取以下欄位資料。請務必使用「繁體中文」回傳。若欄位找不到，請回傳空字串。\n\n" +
	"需要提取的欄位包含：\n" +
	"1. 姓名\n" +
	"2. 性別\n" +
	"3. 出生日期\n" +
	"4. 手機1 (手機號碼)\n" +
	"5. 工作經驗 (總年資)\n" +
	"6. 特殊身份 (如：原住民、身心障礙、學生...等，若無則填'無')\n" +
	"7. 工作經驗一公司名稱 (最近一家公司)\n" +
	"8. 工作經驗一職務名稱 (最近一份職稱)\n" +
	"9. 戶籍地址 (請只提取「縣市」名稱，例如：台北市、新北市、高雄市，不要完整地址)"

// ResponseSchema is the structured-output constraint sent with every
// extraction request so the model's reply parses as ResumeFields.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                {Type: genai.TypeString, Description: "申請人全名 (Name)"},
			"gender":              {Type: genai.TypeString, Description: "性別 (Gender: 男/女/其他)"},
			"dob":                 {Type: genai.TypeString, Description: "出生日期 (YYYY-MM-DD 格式)"},
			"mobile":              {Type: genai.TypeString, Description: "手機號碼 (Mobile Number)"},
			"workExperienceYears": {Type: genai.TypeString, Description: "總工作經驗年資 (例如：'5年', '無')"},
			"specialIdentity":     {Type: genai.TypeString, Description: "特殊身份 (例如：學生, 原住民, 身心障礙, 退伍軍人, 或 '無')"},
			"lastCompanyName":     {Type: genai.TypeString, Description: "最近一份工作的公司名稱 (Most Recent Company)"},
			"lastJobTitle":        {Type: genai.TypeString, Description: "最近一份工作的職務名稱 (Most Recent Job Title)"},
			"householdCity":       {Type: genai.TypeString, Description: "戶籍地址的縣市 (例如：台北市, 台中市)"},
		},
		Required: []string{"name"},
	}
}

// BuildResumeJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We validate the model's reply against it locally before
// unmarshalling, in case the structured-output constraint is not honored.
func BuildResumeJSONSchema() map[string]any {
	stringProp := func() map[string]any { return map[string]any{"type": "string"} }
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":                map[string]any{"type": "string", "minLength": 1},
			"gender":              stringProp(),
			"dob":                 stringProp(),
			"mobile":              stringProp(),
			"workExperienceYears": stringProp(),
			"specialIdentity":     stringProp(),
			"lastCompanyName":     stringProp(),
			"lastJobTitle":        stringProp(),
			"householdCity":       stringProp(),
		},
		"required": []string{"name"},
	}
}
