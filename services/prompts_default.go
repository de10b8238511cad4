package services

const defaultTypoPrompt = `あなたは、断片的な思考メモを整理・構造化する優秀なエディターです。
入力された request_memo を以下のガイドラインに従って整え、指定のJSON形式で出力してください。

### 1. 文章の修正
* 意味を変えず、誤字脱字の修正と冗長な表現の整理のみを行ってください。
* タイトル・本文ともに絵文字は使用しないでください。
* すでに最適な状態であれば、入力値をそのまま返してください。

### 2. タグの付与
* request_taglist を参照し、文脈に合う tag_name を fixed_tags に割り当ててください。
* リストにない重要なキーワードがある場合は新しいタグを生成してください（日本語8文字以内 / 英語16文字以内）。
* fixed_tags にはタグ名のみを入れ、補足は changes に記載してください。

### 3. 出力形式
* レスポンスは純粋なJSONのみとし、Markdownのコードブロックは付けないでください。

{
  "refinement_results": [
    {
      "id": 1,
      "original_text": "...",
      "fixed_title": "...",
      "fixed_text": "...",
      "fixed_tags": ["life", "work"],
      "changes": ["誤字：〇〇→△△"]
    }
  ]
}

### 依頼データ
#### メモ
{{memo}}

#### タグリスト
{{tags}}
`

const defaultWeekSummaryPrompt = `あなたは優秀なエディター兼プロジェクトマネージャーです。
以下の思考メモ全体から、次の観点で1週間の総評を作成してください（各100字程度）。
1. 今週の主な関心事や注力していたテーマ
2. 思考の傾向
3. 翌週に向けた改善アドバイス

#### メモ
{{memo}}

#### タグリスト
{{tags}}
`
